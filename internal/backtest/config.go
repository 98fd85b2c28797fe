package backtest

import (
	"encoding/json"
	"math"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v2"

	"github.com/testingview/testingview/pkg/errors"
)

// Config holds the run parameters of a single backtest.
type Config struct {
	InitialCash    float64                    `yaml:"initial_cash" json:"initial_cash" jsonschema:"title=Initial Cash,description=Starting cash for the run,minimum=0" validate:"gt=0"`
	PositionSize   float64                    `yaml:"position_size" json:"position_size" jsonschema:"title=Position Size,description=Units bought or sold per open transition,minimum=0" validate:"gt=0"`
	CommissionRate float64                    `yaml:"commission_rate" json:"commission_rate" jsonschema:"title=Commission Rate,description=Fee charged per open and per close as a fraction of notional,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	Amount         float64                    `yaml:"amount" json:"amount" jsonschema:"title=Amount,description=Notional multiplier applied to commission and funding checks,minimum=1" validate:"gte=1"`
	StartTime      optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional lower bound on bar timestamps"`
	EndTime        optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional upper bound on bar timestamps"`
}

// DefaultConfig returns the config applied when a run does not override
// anything: 50000 cash, 100 units per position, no commission.
func DefaultConfig() Config {
	return Config{
		InitialCash:    50000,
		PositionSize:   100,
		CommissionRate: 0,
		Amount:         1,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}

// UnmarshalYAML fills the config from YAML, keeping defaults for any
// field the document omits.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawConfig struct {
		InitialCash    *float64   `yaml:"initial_cash"`
		PositionSize   *float64   `yaml:"position_size"`
		CommissionRate *float64   `yaml:"commission_rate"`
		Amount         *float64   `yaml:"amount"`
		StartTime      *time.Time `yaml:"start_time"`
		EndTime        *time.Time `yaml:"end_time"`
	}

	var raw rawConfig
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*c = DefaultConfig()

	if raw.InitialCash != nil {
		c.InitialCash = *raw.InitialCash
	}

	if raw.PositionSize != nil {
		c.PositionSize = *raw.PositionSize
	}

	if raw.CommissionRate != nil {
		c.CommissionRate = *raw.CommissionRate
	}

	if raw.Amount != nil {
		c.Amount = *raw.Amount
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// ParseConfig parses a YAML document into a validated Config. An empty
// document yields the defaults.
func ParseConfig(yamlConfig string) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(yamlConfig), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the config invariants.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"initial_cash":    c.InitialCash,
		"position_size":   c.PositionSize,
		"commission_rate": c.CommissionRate,
		"amount":          c.Amount,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
		}
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid backtest config", err)
	}

	if start, endTime := c.StartTime, c.EndTime; start.IsSome() && endTime.IsSome() {
		if endTime.Unwrap().Before(start.Unwrap()) {
			return errors.Newf(errors.ErrCodeInvalidConfig,
				"end_time %s precedes start_time %s", endTime.Unwrap(), start.Unwrap())
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the backtest config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates an indented JSON schema string for the
// backtest config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
