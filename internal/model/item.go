// Package model holds the domain records exchanged over the API and the
// schema that builds them from untyped request data.
package model

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/deppfellow/autotrader/internal/validation"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

// Item is a validated item record. Description is nil when the client did
// not send one and is serialized as null.
type Item struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
}

// itemFields is the coerced but not yet validated form of an Item. A nil
// pointer means the field was absent or could not be coerced.
type itemFields struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required"`
}

var itemValidator = validation.NewValidator()

// ParseItem builds an Item from a decoded JSON object.
//
// Every field is checked before returning, so a *validation.ValidationError
// lists all failures at once. Unknown keys are ignored.
func ParseItem(raw map[string]any) (*Item, error) {
	var (
		fields  itemFields
		failure validation.ValidationError
	)

	if v, ok := raw[FieldName]; ok {
		if s, ferr := validation.CoerceString(v); ferr != nil {
			failure.Add(FieldName, ferr.Kind, ferr.Message)
		} else {
			fields.Name = &s
		}
	}

	if v, ok := raw[FieldDescription]; ok && v != nil {
		if s, ferr := validation.CoerceString(v); ferr != nil {
			failure.Add(FieldDescription, ferr.Kind, ferr.Message)
		} else {
			fields.Description = &s
		}
	}

	if v, ok := raw[FieldPrice]; ok {
		if f, ferr := validation.CoerceFloat(v); ferr != nil {
			failure.Add(FieldPrice, ferr.Kind, ferr.Message)
		} else {
			fields.Price = &f
		}
	}

	if err := itemValidator.Struct(fields); err != nil {
		var tagErrors validator.ValidationErrors
		if !errors.As(err, &tagErrors) {
			return nil, errors.Wrap(err, "validate item")
		}
		// A field that failed coercion is also nil here; keep the coercion
		// error only.
		for _, f := range validation.FromValidator(tagErrors) {
			if !failure.Has(f.Field) {
				failure.Fields = append(failure.Fields, f)
			}
		}
	}

	if err := failure.ErrOrNil(); err != nil {
		return nil, err
	}

	return &Item{
		Name:        *fields.Name,
		Description: fields.Description,
		Price:       *fields.Price,
	}, nil
}

// CreateItemRequest is the payload of POST /items/.
//
// It keeps the raw JSON object so that coercion and validation happen in
// Validate, where every failing field can be reported.
type CreateItemRequest struct {
	raw       map[string]any
	decoded   bool
	notObject bool
	item      *Item
}

// UnmarshalJSON records the body without interpreting field types. Numbers
// are kept as json.Number.
func (r *CreateItemRequest) UnmarshalJSON(data []byte) error {
	r.decoded = true

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return err
	}

	obj, ok := body.(map[string]any)
	if !ok {
		r.notObject = true
		return nil
	}

	r.raw = obj
	return nil
}

// Validate runs the Item schema over the recorded body.
func (r *CreateItemRequest) Validate() error {
	var failure validation.ValidationError

	switch {
	case !r.decoded:
		failure.Add("", validation.KindMissing, "Field required")
		return &failure
	case r.notObject:
		failure.Add("", validation.KindModelAttributesType, "Input should be a valid dictionary or object to extract fields from")
		return &failure
	}

	item, err := ParseItem(r.raw)
	if err != nil {
		return err
	}

	r.item = item
	return nil
}

// Item returns the validated item. It is nil until Validate succeeds.
func (r *CreateItemRequest) Item() *Item {
	return r.item
}
