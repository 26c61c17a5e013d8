package streamtail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings is the process level configuration read from the environment.
type Settings struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID,required"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY,required"`
	Region          string `env:"AWS_DEFAULT_REGION,required"`
	StreamName      string `env:"AWS_KINESIS_STREAM_NAME,required"`

	SessionToken     string `env:"AWS_SESSION_TOKEN"`
	EndpointOverride string `env:"AWS_KINESIS_ENDPOINT"`
}

// MissingSettingsError lists the required environment variables that were not set.
type MissingSettingsError struct {
	Keys []string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Keys, ", "))
}

// LoadSettings resolves Settings from environ, or from the process
// environment when environ is nil.
func LoadSettings(environ map[string]string) (*Settings, error) {
	var s Settings
	err := env.ParseWithOptions(&s, env.Options{Environment: environ})
	if err == nil {
		return &s, nil
	}
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return nil, err
	}
	missing := &MissingSettingsError{}
	for _, e := range agg.Errors {
		var notSet env.VarIsNotSetError
		if !errors.As(e, &notSet) {
			return nil, err
		}
		missing.Keys = append(missing.Keys, notSet.Key)
	}
	return nil, missing
}

// Field is a single resolved setting as shown in the diagnostic echo.
type Field struct {
	Name  string
	Value string
}

// Fields returns the settings in display order. Secrets are redacted.
func (s *Settings) Fields() []Field {
	fields := []Field{
		{Name: "AWS_ACCESS_KEY_ID", Value: s.AccessKeyID},
		{Name: "AWS_SECRET_ACCESS_KEY", Value: redact(s.SecretAccessKey)},
		{Name: "AWS_DEFAULT_REGION", Value: s.Region},
		{Name: "AWS_KINESIS_STREAM_NAME", Value: s.StreamName},
	}
	if s.SessionToken != "" {
		fields = append(fields, Field{Name: "AWS_SESSION_TOKEN", Value: redact(s.SessionToken)})
	}
	if s.EndpointOverride != "" {
		fields = append(fields, Field{Name: "AWS_KINESIS_ENDPOINT", Value: s.EndpointOverride})
	}
	return fields
}

// redact masks all but the last four characters of secret.
func redact(secret string) string {
	r := []rune(secret)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
