package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"pos/app/catalog"
	"pos/app/sale"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const ReportingServiceName = "pos.v1.ReportingService"

// ReportingServer answers read-only questions for dashboards. Messages are
// protobuf well-known types, so clients need no generated stubs.
type ReportingServer interface {
	GetDailySales(ctx context.Context, day *timestamppb.Timestamp) (*structpb.Struct, error)
	ListCategories(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterReportingServer(s grpc.ServiceRegistrar, srv ReportingServer) {
	s.RegisterService(&reportingServiceDesc, srv)
}

var reportingServiceDesc = grpc.ServiceDesc{
	ServiceName: ReportingServiceName,
	HandlerType: (*ReportingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDailySales", Handler: getDailySalesHandler},
		{MethodName: "ListCategories", Handler: listCategoriesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pos/v1/reporting.proto",
}

func getDailySalesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportingServer).GetDailySales(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ReportingServiceName + "/GetDailySales",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportingServer).GetDailySales(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

func listCategoriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportingServer).ListCategories(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ReportingServiceName + "/ListCategories",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportingServer).ListCategories(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type ReportingService struct {
	ledger  *sale.Ledger
	catalog catalog.Repository
}

func NewReportingService(ledger *sale.Ledger, catalog catalog.Repository) *ReportingService {
	return &ReportingService{
		ledger:  ledger,
		catalog: catalog,
	}
}

// GetDailySales reports the day containing the given instant; an unset
// timestamp means today.
func (s *ReportingService) GetDailySales(ctx context.Context, day *timestamppb.Timestamp) (*structpb.Struct, error) {
	var (
		daily sale.DailySales
		err   error
	)

	if day.GetSeconds() == 0 && day.GetNanos() == 0 {
		daily, err = s.ledger.Today(ctx)
	} else {
		if err := day.CheckValid(); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		daily, err = s.ledger.QueryByDay(ctx, day.AsTime())
	}
	if err != nil {
		zap.L().Error("Failed to query daily sales", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to read sales")
	}

	return toStruct(map[string]any{
		"from":       daily.From,
		"to":         daily.To,
		"totalSales": daily.TotalSales,
		"sales":      daily.Sales,
	})
}

func (s *ReportingService) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		zap.L().Error("Failed to list categories", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to load products")
	}

	return toStruct(map[string]any{"products": categories})
}

// toStruct renders v with the same JSON shape the HTTP API uses.
func toStruct(v any) (*structpb.Struct, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
