package chi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/geo"
	"github.com/intavia/visualquery/internal/domain/layout"
	"github.com/intavia/visualquery/internal/domain/widget"
	sessionuc "github.com/intavia/visualquery/internal/usecase/session"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("constraint_id", func(fl validator.FieldLevel) bool {
		_, ok := constraint.Lookup(constraint.ID(fl.Field().String()))
		return ok
	})
	return v
}

// DefinitionResponse is one palette entry.
type DefinitionResponse struct {
	ID    constraint.ID    `json:"id"`
	Kind  constraint.Kind  `json:"kind"`
	Label string           `json:"label"`
	Event constraint.Event `json:"event,omitempty"`
	Color string           `json:"color"`
}

// ConstraintInput is an active constraint in a request.
type ConstraintInput struct {
	ID    string          `json:"id" validate:"required,constraint_id"`
	Open  bool            `json:"open"`
	Value json.RawMessage `json:"value"`
}

// CreateSessionRequest optionally seeds a new session.
type CreateSessionRequest struct {
	Constraints []ConstraintInput `json:"constraints" validate:"max=16,dive"`
}

// AddConstraintRequest is the body of POST /sessions/{session}/constraints.
type AddConstraintRequest struct {
	ID string `json:"id" validate:"required,constraint_id"`
}

// SetValueRequest is the body of PUT .../value. A null value resets it.
type SetValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// GestureRequest is one widget interaction.
type GestureRequest struct {
	Type    string          `json:"type" validate:"required,oneof=input brush draw toggle close"`
	Text    string          `json:"text"`
	Extent  *[2]float64     `json:"extent"`
	Width   float64         `json:"width" validate:"gte=0"`
	Event   string          `json:"event" validate:"omitempty,oneof=create update delete"`
	Polygon json.RawMessage `json:"polygon"`
	Item    string          `json:"item" validate:"required_if=Type toggle"`
}

// ConstraintResponse is an active constraint in a response.
type ConstraintResponse struct {
	ID    constraint.ID   `json:"id"`
	Kind  constraint.Kind `json:"kind"`
	Label string          `json:"label"`
	Open  bool            `json:"open"`
	Value json.RawMessage `json:"value"`
}

// SessionResponse is the store of a session.
type SessionResponse struct {
	ID          string               `json:"id"`
	Constraints []ConstraintResponse `json:"constraints"`
	Open        *constraint.ID       `json:"open,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func definitionToResponse(d constraint.Definition) DefinitionResponse {
	return DefinitionResponse{
		ID:    d.ID,
		Kind:  d.Kind,
		Label: d.Label,
		Event: d.Event,
		Color: layout.Color(d.ID),
	}
}

func sessionToResponse(snap sessionuc.Snapshot) (SessionResponse, error) {
	resp := SessionResponse{
		ID:          snap.ID.String(),
		Constraints: make([]ConstraintResponse, 0, snap.State.Len()),
		CreatedAt:   snap.CreatedAt.UTC(),
		UpdatedAt:   snap.UpdatedAt.UTC(),
	}
	for _, c := range snap.State.Constraints() {
		raw, err := constraint.EncodeValue(c.Value())
		if err != nil {
			return SessionResponse{}, fmt.Errorf("encode %s: %w", c.ID(), err)
		}
		def, _ := c.Definition()
		resp.Constraints = append(resp.Constraints, ConstraintResponse{
			ID:    c.ID(),
			Kind:  c.Kind(),
			Label: def.Label,
			Open:  c.IsOpen(),
			Value: raw,
		})
		if c.IsOpen() {
			id := c.ID()
			resp.Open = &id
		}
	}
	return resp, nil
}

func constraintsFromInput(in []ConstraintInput) ([]constraint.Constraint, error) {
	out := make([]constraint.Constraint, 0, len(in))
	for _, ci := range in {
		id := constraint.ID(ci.ID)
		v, err := decodeValue(id, ci.Value)
		if err != nil {
			return nil, err
		}
		c, err := constraint.New(id, ci.Open, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidValue, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeValue(id constraint.ID, raw json.RawMessage) (constraint.Value, error) {
	def, ok := constraint.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConstraint, id)
	}
	v, err := constraint.DecodeValue(def.Kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidValue, id, err)
	}
	return v, nil
}

func gestureFromRequest(req GestureRequest) (widget.Gesture, error) {
	switch req.Type {
	case "input":
		return widget.Input{Text: req.Text}, nil
	case "brush":
		return widget.Brush{Extent: req.Extent, Width: req.Width}, nil
	case "draw":
		g := widget.Draw{Event: widget.DrawEvent(req.Event)}
		if len(req.Polygon) > 0 && string(req.Polygon) != "null" {
			p, err := geo.ParsePolygon(req.Polygon)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrInvalidGesture, err)
			}
			g.Polygon = p
		}
		return g, nil
	case "toggle":
		return widget.Toggle{Item: req.Item}, nil
	case "close":
		return widget.Close{}, nil
	default:
		return nil, fmt.Errorf("%w: type %q", domain.ErrInvalidGesture, req.Type)
	}
}
