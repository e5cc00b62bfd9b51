package client

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turtacn/AeroOps/pkg/errors"
)

const dateLayout = "2006-01-02"

// DateRange is the inclusive from/to filter sent as yyyy-MM-dd.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) query() (url.Values, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return nil, errors.New(errors.ErrCodeDateRangeInvalid, "from and to are required")
	}
	if r.From.After(r.To) {
		return nil, errors.New(errors.ErrCodeDateRangeInvalid, "from is after to")
	}
	q := url.Values{}
	q.Set("from", r.From.Format(dateLayout))
	q.Set("to", r.To.Format(dateLayout))
	return q, nil
}

// AmountMap is year → month → amount.
type AmountMap map[string]map[string]decimal.Decimal

// CountMap is year → month → count.
type CountMap map[string]map[string]float64

// PurchaseOrderRecord is one purchase order behind a statistics bucket.
type PurchaseOrderRecord struct {
	ID          int64           `json:"id" validate:"gt=0"`
	OrderNumber string          `json:"order_number"`
	Vendor      string          `json:"vendor,omitempty"`
	Status      string          `json:"status,omitempty"`
	Date        string          `json:"date,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseOrderStatistics is the nested-map payload of the purchase-order
// statistics endpoint.  TotalAnnual is left loosely typed because the backend
// has sent both numbers and numeric strings there.
type PurchaseOrderStatistics struct {
	Total              AmountMap                                   `json:"total"`
	TransportVenezuela AmountMap                                   `json:"transport_venezuela"`
	TransportUSA       AmountMap                                   `json:"transport_usa"`
	Taxes              AmountMap                                   `json:"taxes"`
	WireFee            AmountMap                                   `json:"wire_fee"`
	HandlingFee        AmountMap                                   `json:"handling_fee"`
	Count              CountMap                                    `json:"count"`
	TotalAnnual        map[string]any                              `json:"total_annual"`
	Records            map[string]map[string][]PurchaseOrderRecord `json:"records" validate:"dive,dive,dive"`
}

// SMSReportRecord is one safety report behind a statistics bucket.
type SMSReportRecord struct {
	ID     int64  `json:"id" validate:"gt=0"`
	Number string `json:"report_number,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Status string `json:"status,omitempty"`
	Date   string `json:"date,omitempty"`
}

// SMSReportStatistics is the payload of the SMS report statistics endpoint.
type SMSReportStatistics struct {
	Voluntary   CountMap                                `json:"voluntary"`
	Obligatory  CountMap                                `json:"obligatory"`
	TotalAnnual map[string]any                          `json:"total_annual"`
	Records     map[string]map[string][]SMSReportRecord `json:"records" validate:"dive,dive,dive"`
}

// StatisticsClient wraps the statistics endpoints of one company.
type StatisticsClient struct {
	client  *Client
	company string
}

// PurchaseOrders fetches purchase-order statistics for the range.
func (s *StatisticsClient) PurchaseOrders(ctx context.Context, r DateRange) (*PurchaseOrderStatistics, error) {
	q, err := r.query()
	if err != nil {
		return nil, err
	}
	var out PurchaseOrderStatistics
	if err := s.client.get(ctx, tenantPath(s.company, "statistics", "purchase-orders"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SMSReports fetches safety report statistics for the range.
func (s *StatisticsClient) SMSReports(ctx context.Context, r DateRange) (*SMSReportStatistics, error) {
	q, err := r.query()
	if err != nil {
		return nil, err
	}
	var out SMSReportStatistics
	if err := s.client.get(ctx, tenantPath(s.company, "statistics", "sms-reports"), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
