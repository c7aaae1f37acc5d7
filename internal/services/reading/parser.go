// Package reading turns rtl_433 JSON lines into domain measurements.
package reading

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vshulcz/rtl433-exporter/internal/domain"
	"github.com/vshulcz/rtl433-exporter/internal/jsoncodec"
	"github.com/vshulcz/rtl433-exporter/internal/ports"
)

// Field names emitted by rtl_433.
const (
	FieldID          = "id"
	FieldModel       = "model"
	FieldTemperature = "temperature_C"
	FieldHumidity    = "humidity"
)

var (
	errNotNumeric = errors.New("not a number")
	errNotString  = errors.New("not a string")
)

// Parser validates readings against an allow-list.
type Parser struct {
	allowed domain.AllowList
	logger  *zap.Logger
}

var _ ports.ReadingParser = (*Parser)(nil)

// New returns a Parser; a nil logger discards diagnostics.
func New(allowed domain.AllowList, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{allowed: allowed, logger: logger}
}

// Parse converts one raw line. Every failure is a *domain.Rejection.
func (p *Parser) Parse(line string) (domain.Measurement, error) {
	trimmed := strings.TrimSpace(line)
	obj, err := jsoncodec.DecodeObject([]byte(trimmed))
	if err != nil {
		p.logger.Warn("failed to decode json from line", zap.String("line", line), zap.Error(err))
		return domain.Measurement{}, domain.Reject(domain.ReasonMalformedJSON, "", err)
	}

	rawID, hasID := obj[FieldID]
	rawModel, hasModel := obj[FieldModel]
	if !hasID || !hasModel {
		p.logger.Debug("ignoring measurement without id or model", zap.String("line", trimmed))
		return domain.Measurement{}, domain.Reject(domain.ReasonMissingIdentity, "", nil)
	}

	id, ok := integralID(rawID)
	if !ok || !p.allowed.Contains(id) {
		p.logger.Debug("ignoring measurement because id is not allowed",
			zap.ByteString("device_id", rawID),
			zap.Int64s("allowed_ids", p.allowed.IDs()),
		)
		return domain.Measurement{}, domain.Reject(domain.ReasonNotAllowed, "", nil)
	}

	var model string
	if err := jsoncodec.Unmarshal(rawModel, &model); err != nil || isNull(rawModel) {
		return domain.Measurement{}, p.invalid(FieldModel, rawModel, errOrDefault(err, errNotString))
	}

	m := domain.Measurement{DeviceID: id, Model: model}
	if raw, ok := obj[FieldTemperature]; ok {
		v, err := coerceFloat(raw)
		if err != nil {
			return domain.Measurement{}, p.invalid(FieldTemperature, raw, err)
		}
		m.Temperature = &v
	}
	if raw, ok := obj[FieldHumidity]; ok {
		v, err := coerceFloat(raw)
		if err != nil {
			return domain.Measurement{}, p.invalid(FieldHumidity, raw, err)
		}
		m.Humidity = &v
	}
	return m, nil
}

func (p *Parser) invalid(field string, raw []byte, cause error) error {
	p.logger.Warn("invalid value in measurement",
		zap.String("field", field),
		zap.ByteString("value", raw),
		zap.Error(cause),
	)
	return domain.Reject(domain.ReasonInvalidValue, field, cause)
}

func errOrDefault(err, def error) error {
	if err != nil {
		return err
	}
	return def
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// integralID accepts JSON numbers with an integral value (5, 5.0, 5e0).
func integralID(raw []byte) (int64, bool) {
	s := string(bytes.TrimSpace(raw))
	if !isJSONNumber(s) {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceFloat mirrors a lenient float conversion: numbers, numeric strings
// and booleans convert; null, arrays, objects and other strings do not.
func coerceFloat(raw []byte) (float64, error) {
	s := string(bytes.TrimSpace(raw))
	switch {
	case s == "true":
		return 1, nil
	case s == "false":
		return 0, nil
	case isJSONNumber(s):
		return parseFloat(s)
	case strings.HasPrefix(s, `"`):
		var str string
		if err := jsoncodec.Unmarshal(raw, &str); err != nil {
			return 0, err
		}
		return parseFloat(strings.TrimSpace(str))
	default:
		return 0, fmt.Errorf("%w: %s", errNotNumeric, s)
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", errNotNumeric, s)
	}
	return f, nil
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '-' || (c >= '0' && c <= '9')
}
