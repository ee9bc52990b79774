package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Alias1177/fxsignal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ModelSettings is the file form of the feature and risk payloads
type ModelSettings struct {
	Features     models.FeatureToggleSet `json:"features" yaml:"features"`
	RiskSettings models.RiskSettings     `json:"riskSettings" yaml:"riskSettings"`
}

// DefaultFeatures returns every feature disabled with default parameters
func DefaultFeatures() models.FeatureToggleSet {
	var f models.FeatureToggleSet
	// defaults only fail on malformed tags
	if err := defaults.Set(&f); err != nil {
		panic(err)
	}
	return f
}

// DefaultRiskSettings returns the default account limits
func DefaultRiskSettings() models.RiskSettings {
	var r models.RiskSettings
	if err := defaults.Set(&r); err != nil {
		panic(err)
	}
	return r
}

// ParseFeatures decodes a JSON feature payload over the defaults and validates it
func ParseFeatures(data []byte) (models.FeatureToggleSet, error) {
	f := DefaultFeatures()
	if err := decode(data, &f, sonic.Unmarshal); err != nil {
		return models.FeatureToggleSet{}, err
	}
	if err := check(&f); err != nil {
		return models.FeatureToggleSet{}, err
	}
	return f, nil
}

// ParseRiskSettings decodes a JSON risk payload over the defaults and validates it
func ParseRiskSettings(data []byte) (models.RiskSettings, error) {
	r := DefaultRiskSettings()
	if err := decode(data, &r, sonic.Unmarshal); err != nil {
		return models.RiskSettings{}, err
	}
	if err := check(&r); err != nil {
		return models.RiskSettings{}, err
	}
	return r, nil
}

// LoadModelSettings reads features and risk settings from a YAML or JSON file
func LoadModelSettings(path string) (*ModelSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model settings: %w", err)
	}

	settings := &ModelSettings{
		Features:     DefaultFeatures(),
		RiskSettings: DefaultRiskSettings(),
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = sonic.Unmarshal
	}
	if err := decode(data, settings, unmarshal); err != nil {
		return nil, err
	}
	if err := check(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func decode(data []byte, v any, unmarshal func([]byte, any) error) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidFeatureConfig, err)
	}
	return nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", models.ErrInvalidFeatureConfig, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, getErrorMessage(fe))
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidFeatureConfig, strings.Join(msgs, "; "))
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
