package client

import (
	"context"
	"strconv"

	"github.com/turtacn/AeroOps/pkg/errors"
)

// AircraftPart is the submit shape of one node of the part tree.  Every
// counter is always present.
type AircraftPart struct {
	PartName            string         `json:"part_name" validate:"required"`
	PartNumber          string         `json:"part_number" validate:"required"`
	ConditionType       string         `json:"condition_type" validate:"required"`
	IsFather            bool           `json:"is_father"`
	TimeSinceNew        float64        `json:"time_since_new" validate:"gte=0"`
	TimeSinceOverhaul   float64        `json:"time_since_overhaul" validate:"gte=0"`
	CyclesSinceNew      float64        `json:"cycles_since_new" validate:"gte=0"`
	CyclesSinceOverhaul float64        `json:"cycles_since_overhaul" validate:"gte=0"`
	SubParts            []AircraftPart `json:"sub_parts,omitempty" validate:"dive"`
}

// SubmitPartsRequest is the bulk body of the parts endpoint.
type SubmitPartsRequest struct {
	Parts []AircraftPart `json:"parts" validate:"min=1,dive"`
}

// SubmitPartsResponse acknowledges a bulk submission.
type SubmitPartsResponse struct {
	AircraftID int64 `json:"aircraft_id"`
	Created    int   `json:"created"`
}

// AircraftClient wraps the aircraft endpoints of one company.
type AircraftClient struct {
	client  *Client
	company string
}

// SubmitParts posts the whole part tree of an aircraft in one request.
func (a *AircraftClient) SubmitParts(ctx context.Context, aircraftID int64, parts []AircraftPart) (*SubmitPartsResponse, error) {
	req := SubmitPartsRequest{Parts: parts}
	if err := a.client.validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid part tree")
	}
	var out SubmitPartsResponse
	path := tenantPath(a.company, "aircraft", strconv.FormatInt(aircraftID, 10), "parts")
	if err := a.client.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
