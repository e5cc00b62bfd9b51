package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// HoursMode selects how the backend fills aircraft hours on the report.
type HoursMode string

const (
	HoursAuto   HoursMode = "auto"
	HoursManual HoursMode = "manual"
)

// ParseHoursMode accepts "auto" or "manual" in any case.
func ParseHoursMode(s string) (HoursMode, error) {
	switch HoursMode(strings.ToLower(strings.TrimSpace(s))) {
	case HoursAuto:
		return HoursAuto, nil
	case HoursManual:
		return HoursManual, nil
	}
	return "", errors.New(errors.ErrCodeHoursModeInvalid, "aircraft hours mode must be auto or manual").WithDetail(s)
}

// PrelimInspectionFilename is the download name of a preliminary inspection.
func PrelimInspectionFilename(order string) string {
	return fmt.Sprintf("PRELIM_INSPECTION_WO-%s.pdf", order)
}

// WorkOrdersClient wraps the work-order endpoints of one company.
type WorkOrdersClient struct {
	client  *Client
	company string
}

// PrelimInspectionPDF downloads the preliminary inspection report.  hours is
// sent only in manual mode.
func (w *WorkOrdersClient) PrelimInspectionPDF(ctx context.Context, order string, mode HoursMode, hours float64) ([]byte, error) {
	if strings.TrimSpace(order) == "" {
		return nil, errors.InvalidParam("work order number is required")
	}
	if _, err := ParseHoursMode(string(mode)); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("aircraft_hours_mode", string(mode))
	if mode == HoursManual {
		q.Set("aircraft_hours", strconv.FormatFloat(hours, 'f', -1, 64))
	}
	body, err := w.client.do(ctx, request{
		method: http.MethodGet,
		path:   tenantPath(w.company, "work-order-prelim-inspection", order),
		query:  q,
		accept: "application/pdf",
	})
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeUpstreamBadPayload, "empty PDF response")
	}
	return body, nil
}

//Personal.AI order the ending
