package grpc

import (
	"context"
	"errors"
	"net"
	"pos/app/sale"
	"pos/domain"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type stubSales struct {
	sales []domain.Sale
	err   error
}

func (s *stubSales) InsertSale(context.Context, domain.Sale) error { return s.err }

func (s *stubSales) ListSalesBetween(_ context.Context, from, to time.Time) ([]domain.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Sale
	for _, sl := range s.sales {
		if !sl.Date.Before(from) && sl.Date.Before(to) {
			out = append(out, sl)
		}
	}
	return out, nil
}

type stubCatalog struct {
	categories []domain.Category
	err        error
}

func (c *stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return c.categories, c.err
}
func (c *stubCatalog) GetCategory(context.Context, string) (domain.Category, error) {
	return domain.Category{}, domain.ErrNotFound
}
func (c *stubCatalog) CreateCategory(context.Context, domain.Category) (domain.Category, error) {
	return domain.Category{}, c.err
}
func (c *stubCatalog) AddItem(context.Context, domain.Item) (domain.Item, error) {
	return domain.Item{}, c.err
}
func (c *stubCatalog) DeleteItem(context.Context, string, string) (bool, error) { return false, c.err }
func (c *stubCatalog) DeleteCategory(context.Context, string) error             { return c.err }

func dialReporting(t *testing.T, svc ReportingServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	server := NewServerWithListener(lis)
	server.RegisterReporting(svc)

	go func() { _ = server.Start() }()
	t.Cleanup(func() { _ = server.GracefulStop() })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReportingService_GetDailySales(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	sales := &stubSales{sales: []domain.Sale{
		{ID: "s-1", Items: domain.SaleItems{{Name: "Tea", Price: decimal.NewFromInt(50), Quantity: 2}}, Total: decimal.NewFromInt(100), PaymentMethod: domain.PaymentCash, Date: day.Add(9 * time.Hour)},
		{ID: "s-2", Items: domain.SaleItems{{Name: "Soda", Price: decimal.NewFromInt(100), Quantity: 1}}, Total: decimal.NewFromInt(100), PaymentMethod: domain.PaymentCard, Date: day.Add(-time.Minute)},
	}}
	svc := NewReportingService(sale.NewLedger(sales, time.UTC), &stubCatalog{})
	conn := dialReporting(t, svc)

	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), "/pos.v1.ReportingService/GetDailySales", timestamppb.New(day.Add(12*time.Hour)), out)
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, float64(100), fields["totalSales"])
	salesOut, ok := fields["sales"].([]any)
	require.True(t, ok)
	require.Len(t, salesOut, 1)
	assert.Equal(t, "s-1", salesOut[0].(map[string]any)["_id"])
}

func TestReportingService_GetDailySalesStoreFailure(t *testing.T) {
	svc := NewReportingService(sale.NewLedger(&stubSales{err: errors.New("db down")}, time.UTC), &stubCatalog{})
	conn := dialReporting(t, svc)

	err := conn.Invoke(context.Background(), "/pos.v1.ReportingService/GetDailySales", timestamppb.Now(), new(structpb.Struct))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestReportingService_ListCategories(t *testing.T) {
	svc := NewReportingService(sale.NewLedger(&stubSales{}, time.UTC), &stubCatalog{categories: []domain.Category{
		{ID: "c-1", Name: "Drinks", Items: []domain.Item{{ID: "i-1", Name: "Tea", Price: decimal.NewFromInt(50)}}},
	}})
	conn := dialReporting(t, svc)

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), "/pos.v1.ReportingService/ListCategories", &emptypb.Empty{}, out))

	products, ok := out.AsMap()["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	assert.Equal(t, "Drinks", products[0].(map[string]any)["category"])
}

func TestReportingService_Health(t *testing.T) {
	conn := dialReporting(t, NewReportingService(sale.NewLedger(&stubSales{}, time.UTC), &stubCatalog{}))

	res, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ReportingServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)
}

type panickyReporting struct{ ReportingServer }

func (panickyReporting) ListCategories(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	panic("boom")
}

func TestRecoveryInterceptor(t *testing.T) {
	conn := dialReporting(t, panickyReporting{})

	err := conn.Invoke(context.Background(), "/pos.v1.ReportingService/ListCategories", &emptypb.Empty{}, new(structpb.Struct))
	assert.Equal(t, codes.Internal, status.Code(err))
}
