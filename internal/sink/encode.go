package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/engine"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// encoder renders rows into a byte stream.
type encoder interface {
	Encode(w io.Writer, columns []Column, rows []engine.Row) error
	// Extension is used when guessing an upload content type.
	Extension() string
	ContentType() string
}

func encoderFor(format string) (encoder, error) {
	switch format {
	case "json":
		return jsonEncoder{}, nil
	case "jsonl":
		return jsonlEncoder{}, nil
	case "yaml":
		return yamlEncoder{}, nil
	case "csv":
		return csvEncoder{}, nil
	case "text":
		return textEncoder{}, nil
	default:
		return nil, generr.Configurationf("unknown output format %q (supported: %v)", format, Formats())
	}
}

// jsonEncoder writes a JSON array of objects, one per row, keys in column
// order.
type jsonEncoder struct{}

func (jsonEncoder) Extension() string   { return ".json" }
func (jsonEncoder) ContentType() string { return "application/json" }

func (jsonEncoder) Encode(w io.Writer, columns []Column, rows []engine.Row) error {
	bw := bufio.NewWriter(w)
	if len(rows) == 0 {
		bw.WriteString("[]\n")
		return bw.Flush()
	}
	bw.WriteString("[\n")
	for i, row := range rows {
		bw.WriteString("  ")
		if err := writeJSONObject(bw, columns, row); err != nil {
			return errors.Wrapf(err, "encoding row %d", i)
		}
		if i < len(rows)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

// jsonlEncoder writes one JSON object per line.
type jsonlEncoder struct{}

func (jsonlEncoder) Extension() string   { return ".jsonl" }
func (jsonlEncoder) ContentType() string { return "application/x-ndjson" }

func (jsonlEncoder) Encode(w io.Writer, columns []Column, rows []engine.Row) error {
	bw := bufio.NewWriter(w)
	for i, row := range rows {
		if err := writeJSONObject(bw, columns, row); err != nil {
			return errors.Wrapf(err, "encoding row %d", i)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeJSONObject(w *bufio.Writer, columns []Column, row engine.Row) error {
	w.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			w.WriteByte(',')
		}
		key, err := json.Marshal(col.Name)
		if err != nil {
			return err
		}
		w.Write(key)
		w.WriteByte(':')
		val, err := marshalValue(row[col.Name])
		if err != nil {
			return errors.Wrapf(err, "column %q", col.Name)
		}
		w.Write(val)
	}
	w.WriteByte('}')
	return nil
}

func marshalValue(v cty.Value) ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return ctyjson.Marshal(v, v.Type())
}

// yamlEncoder writes a YAML sequence of mappings, keys in column order.
type yamlEncoder struct{}

func (yamlEncoder) Extension() string   { return ".yaml" }
func (yamlEncoder) ContentType() string { return "application/yaml" }

func (yamlEncoder) Encode(w io.Writer, columns []Column, rows []engine.Row) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for i, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range columns {
			native, err := ctyToNative(row[col.Name])
			if err != nil {
				return errors.Wrapf(err, "encoding row %d column %q", i, col.Name)
			}
			val := &yaml.Node{}
			if err := val.Encode(native); err != nil {
				return errors.Wrapf(err, "encoding row %d column %q", i, col.Name)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col.Name}
			m.Content = append(m.Content, key, val)
		}
		doc.Content = append(doc.Content, m)
	}
	if len(rows) == 0 {
		doc.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return enc.Close()
}

// csvEncoder writes a header line followed by one record per row. Nulls
// become empty fields.
type csvEncoder struct{}

func (csvEncoder) Extension() string   { return ".csv" }
func (csvEncoder) ContentType() string { return "text/csv" }

func (csvEncoder) Encode(w io.Writer, columns []Column, rows []engine.Row) error {
	cw := csv.NewWriter(w)
	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = col.Name
	}
	if err := cw.Write(record); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for i, row := range rows {
		for j, col := range columns {
			s, err := valueText(row[col.Name])
			if err != nil {
				return errors.Wrapf(err, "encoding row %d column %q", i, col.Name)
			}
			record[j] = s
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing csv row %d", i)
		}
	}
	cw.Flush()
	return cw.Error()
}

// textEncoder prints each row as an indented block of key = "value" lines.
type textEncoder struct{}

func (textEncoder) Extension() string   { return ".txt" }
func (textEncoder) ContentType() string { return "text/plain; charset=utf-8" }

func (textEncoder) Encode(w io.Writer, columns []Column, rows []engine.Row) error {
	bw := bufio.NewWriter(w)
	for i, row := range rows {
		fmt.Fprintf(bw, "row %d:\n", i)
		for _, col := range columns {
			s, err := valueText(row[col.Name])
			if err != nil {
				return errors.Wrapf(err, "encoding row %d column %q", i, col.Name)
			}
			fmt.Fprintf(bw, "      %s = %q\n", col.Name, s)
		}
	}
	return bw.Flush()
}

// valueText renders a primitive value as plain text and anything else as
// JSON. Null becomes the empty string.
func valueText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsKnown() {
		return "", errors.New("value is unknown")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		return strconv.FormatBool(v.True()), nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ctyToNative converts a value to the closest plain Go value. Integral
// numbers that fit into an int64 stay integers.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, errors.New("value is unknown")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		if math.IsInf(f, 0) {
			return bf.Text('g', -1), nil
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			n, err := ctyToNative(el)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, el := it.Element()
			n, err := ctyToNative(el)
			if err != nil {
				return nil, errors.Wrapf(err, "in attribute %q", k.AsString())
			}
			out[k.AsString()] = n
		}
		return out, nil

	default:
		return nil, errors.Newf("unsupported value type %s", ty.FriendlyName())
	}
}
