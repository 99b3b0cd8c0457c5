package till

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pos/domain"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RemoteError is an error body returned by the server.
type RemoteError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("pos server: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap lets callers match an empty-cart rejection with domain.ErrEmptyCart.
func (e *RemoteError) Unwrap() error {
	if e.Code == "sale.create.empty_cart" {
		return domain.ErrEmptyCart
	}
	if e.Status == fiber.StatusBadRequest {
		return domain.ErrValidation
	}
	return nil
}

// HTTPRecorder posts sales to the server's /sales endpoint.
type HTTPRecorder struct {
	baseURL string
	timeout time.Duration
}

func NewHTTPRecorder(baseURL string, timeout time.Duration) *HTTPRecorder {
	return &HTTPRecorder{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type recordSaleResponse struct {
	Message string      `json:"message"`
	Sale    domain.Sale `json:"sale"`
}

func (r *HTTPRecorder) RecordSale(ctx context.Context, req SaleRequest) (domain.Sale, error) {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout <= 0 || ctx.Err() != nil {
		return domain.Sale{}, context.DeadlineExceeded
	}

	agent := fiber.Post(r.baseURL + "/sales")
	agent.JSON(req)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return domain.Sale{}, fmt.Errorf("record sale: %w", errors.Join(errs...))
	}

	if status != fiber.StatusOK {
		remote := &RemoteError{Status: status}
		if err := json.Unmarshal(body, remote); err != nil {
			remote.Message = strings.TrimSpace(string(body))
		}
		return domain.Sale{}, remote
	}

	var res recordSaleResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return domain.Sale{}, fmt.Errorf("decode sale response: %w", err)
	}
	return res.Sale, nil
}
