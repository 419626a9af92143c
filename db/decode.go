package db

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"github.com/harborne/LagoonDB/sql"
)

var (
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	stringType   = reflect.TypeOf("")
)

// decodeValue converts v into T. Requests for sql value types are served
// directly; everything else goes through the native representation and
// mapstructure, with hooks for the value types that have no plain Go
// equivalent.
func decodeValue[T any](v sql.Value) (T, error) {
	var out T

	// The caller may ask for the value itself, or for one of the concrete
	// value types. Neither needs conversion.
	if target, ok := any(&out).(*sql.Value); ok {
		*target = v
		return out, nil
	}
	if direct, ok := any(v).(T); ok {
		return direct, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			datetimeHook,
			durationHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return out, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(sql.Native(v)); err != nil {
		return out, err
	}
	return out, nil
}

// decimalHook converts exact decimals into numeric or string targets.
func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from != decimalType || to == decimalType {
		return data, nil
	}
	d := data.(decimal.Decimal)
	switch to.Kind() {
	case reflect.String:
		return d.String(), nil
	case reflect.Float32, reflect.Float64:
		f, _ := d.Float64()
		return f, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !d.IsInteger() {
			return nil, fmt.Errorf("decimal %s is not an integer", d)
		}
		return d.IntPart(), nil
	default:
		return data, nil
	}
}

// datetimeHook renders datetimes into string targets.
func datetimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from != timeType || to != stringType {
		return data, nil
	}
	return data.(time.Time).Format(time.RFC3339Nano), nil
}

// durationHook renders durations into string targets and parses string
// durations into time.Duration.
func durationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == durationType && to == stringType {
		return data.(time.Duration).String(), nil
	}
	if from == stringType && to == durationType {
		return time.ParseDuration(data.(string))
	}
	return data, nil
}
