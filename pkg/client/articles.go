package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// QuarantineRecord is one quarantine event of an article.
type QuarantineRecord struct {
	Reason    string  `json:"reason"`
	Inspector string  `json:"inspector"`
	EntryDate string  `json:"quarantine_entry_date"`
	ExitDate  *string `json:"quarantine_exit_date"`
}

// Batch is the named grouping of articles.
type Batch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Article is an inventory article as returned by the backend.
type Article struct {
	ID          int64              `json:"id" validate:"gt=0"`
	PartNumber  string             `json:"part_number"`
	Serial      string             `json:"serial"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status,omitempty"`
	Batch       *Batch             `json:"batch"`
	Quarantine  []QuarantineRecord `json:"quarantine"`
}

// CreateArticleRequest is the body of POST /{company}/articles.
type CreateArticleRequest struct {
	PartNumber  string  `json:"part_number" validate:"required,max=64"`
	Serial      string  `json:"serial,omitempty" validate:"max=64"`
	Description string  `json:"description" validate:"required"`
	BatchID     int64   `json:"batch_id" validate:"gt=0"`
	Condition   string  `json:"condition,omitempty"`
	Quantity    float64 `json:"quantity,omitempty" validate:"gte=0"`
	Unit        string  `json:"unit,omitempty"`
	Image       string  `json:"image,omitempty"`
	Certificate string  `json:"certificate,omitempty"`
}

// ---------------------------------------------------------------------------
// ArticlesClient
// ---------------------------------------------------------------------------

// ArticlesClient wraps the inventory endpoints of one company.
type ArticlesClient struct {
	client  *Client
	company string
}

// List returns every article of the company.
func (a *ArticlesClient) List(ctx context.Context) ([]Article, error) {
	body, err := a.client.do(ctx, request{method: http.MethodGet, path: tenantPath(a.company, "articles")})
	if err != nil {
		return nil, err
	}
	return decodeList[Article](a.client, body)
}

// ListQuarantined returns the articles currently in quarantine status.
func (a *ArticlesClient) ListQuarantined(ctx context.Context) ([]Article, error) {
	body, err := a.client.do(ctx, request{method: http.MethodGet, path: tenantPath(a.company, "articles", "quarantine")})
	if err != nil {
		return nil, err
	}
	return decodeList[Article](a.client, body)
}

// Get returns one article.
func (a *ArticlesClient) Get(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := a.client.get(ctx, tenantPath(a.company, "articles", strconv.FormatInt(id, 10)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new article.
func (a *ArticlesClient) Create(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	if err := a.client.validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArticleInvalid, "invalid article")
	}
	var out Article
	if err := a.client.post(ctx, tenantPath(a.company, "articles"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an article.
func (a *ArticlesClient) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.InvalidParam("article id must be positive")
	}
	return a.client.delete(ctx, tenantPath(a.company, "articles", strconv.FormatInt(id, 10)))
}

//Personal.AI order the ending
