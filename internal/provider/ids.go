package provider

import (
	"github.com/cockroachdb/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// NumberID returns the id of a number: its shortest decimal form, the same
// text a number literal converts to.
func NumberID(v cty.Value) (string, error) {
	if err := checkKnown(v, cty.Number); err != nil {
		return "", err
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

// ParseNumberID is the inverse of NumberID.
func ParseNumberID(id string) (cty.Value, error) {
	v, err := cty.ParseNumberVal(id)
	if err != nil {
		return cty.NilVal, errors.Mark(errors.Wrapf(err, "id %q", id), ErrInvalidID)
	}
	return v, nil
}

// StringID returns the id of a string value, which is the string itself.
func StringID(v cty.Value) (string, error) {
	if err := checkKnown(v, cty.String); err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func checkKnown(v cty.Value, want cty.Type) error {
	if v.IsNull() || !v.IsKnown() {
		return errors.New("value must be known and not null")
	}
	if !v.Type().Equals(want) {
		return errors.Newf("expected %s value, got %s", want.FriendlyName(), v.Type().FriendlyName())
	}
	return nil
}
