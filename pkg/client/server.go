package client

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// TenantHeader carries the tenant on calls to an AeroOps server.
const TenantHeader = "X-Tenant-ID"

// ServerClient calls a running AeroOps server on behalf of one tenant.  It
// shares retries, request IDs and error parsing with the backend
// sub-clients; base URL and tenant are the only differences.
type ServerClient struct {
	client *Client
	tenant string
}

// Server returns the AeroOps server sub-client for tenant.  The receiver's
// base URL must point at the server, not at the backend.
func (c *Client) Server(tenant string) *ServerClient {
	return &ServerClient{client: c, tenant: tenant}
}

func (s *ServerClient) header() http.Header {
	h := http.Header{}
	if s.tenant != "" {
		h.Set(TenantHeader, s.tenant)
	}
	return h
}

func (s *ServerClient) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	resp, err := s.client.send(ctx, request{method: http.MethodGet, path: path, query: q, header: s.header()})
	if err != nil {
		return serverError(err)
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "decode server response").WithDetail(path)
	}
	return nil
}

// Quarantine decodes GET /api/v1/quarantine into out.
func (s *ServerClient) Quarantine(ctx context.Context, out interface{}) error {
	return s.getJSON(ctx, "/api/v1/quarantine", nil, out)
}

// PurchaseOrders decodes the purchase-order statistics for from..to into
// out.  Dates are yyyy-MM-dd and checked by the server; year may be empty.
func (s *ServerClient) PurchaseOrders(ctx context.Context, from, to, year string, out interface{}) error {
	q := url.Values{"from": {from}, "to": {to}}
	if year != "" {
		q.Set("year", year)
	}
	return s.getJSON(ctx, "/api/v1/statistics/purchase-orders", q, out)
}

// PrelimInspection downloads the preliminary inspection PDF of order and
// returns it with the filename the server chose.
func (s *ServerClient) PrelimInspection(ctx context.Context, order string, mode HoursMode, hours float64) ([]byte, string, error) {
	if strings.TrimSpace(order) == "" {
		return nil, "", errors.InvalidParam("work order number is required")
	}
	if _, err := ParseHoursMode(string(mode)); err != nil {
		return nil, "", err
	}
	q := url.Values{"aircraft_hours_mode": {string(mode)}}
	if mode == HoursManual {
		q.Set("aircraft_hours", strconv.FormatFloat(hours, 'f', -1, 64))
	}
	resp, err := s.client.send(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/work-orders/" + url.PathEscape(order) + "/prelim-inspection",
		query:  q,
		accept: "application/pdf",
		header: s.header(),
	})
	if err != nil {
		return nil, "", serverError(err)
	}
	filename := ""
	if _, params, perr := mime.ParseMediaType(resp.header.Get("Content-Disposition")); perr == nil {
		filename = params["filename"]
	}
	if filename == "" {
		filename = PrelimInspectionFilename(order)
	}
	return resp.body, filename, nil
}

// serverError turns the server's error envelope back into the AppError it
// was rendered from.  Other errors pass through.
func serverError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Code == "" {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return errors.New(errors.ErrCodeInternal, http.StatusText(apiErr.StatusCode)).WithDetail(strings.TrimSpace(msg))
	}
	return errors.New(errors.ErrorCode(apiErr.Code), apiErr.Message).WithDetail(apiErr.Detail)
}

//Personal.AI order the ending
