package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env files in priority order:
// 1. ENV_FILE environment variable (if set, loads only this file)
// 2. .env.local (if exists, overrides .env)
// 3. .env
// Variables already present in the environment are never overwritten.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	applyEnvToStruct(reflect.ValueOf(c).Elem(), "")

	for name, sc := range c.Sources {
		applyEnvToStruct(reflect.ValueOf(&sc).Elem(), name)
		c.Sources[name] = sc
	}
}

// applyEnvToStruct sets every field tagged `env` from the environment. Maps are skipped.
func applyEnvToStruct(v reflect.Value, source string) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			applyEnvToStruct(field, source)
			continue
		}

		tag := t.Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}
		if strings.Contains(tag, "*") != (source != "") {
			continue
		}

		val, ok := os.LookupEnv(envName(tag, source))
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		setFieldFromString(field, strings.TrimSpace(val))
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

func setFieldFromString(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)

	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			if d, ok := parseDuration(val); ok {
				field.SetInt(int64(d))
			}
			return
		}
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(i)
		}

	case reflect.Bool:
		field.SetBool(parseBool(val))

	case reflect.Ptr:
		switch field.Type().Elem().Kind() {
		case reflect.Bool:
			b := parseBool(val)
			field.Set(reflect.ValueOf(&b))
		case reflect.Int:
			if i, err := strconv.Atoi(val); err == nil {
				field.Set(reflect.ValueOf(&i))
			}
		}

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(val, ",")
			for i, p := range parts {
				parts[i] = strings.TrimSpace(p)
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
}

// parseDuration accepts Go durations ("2s", "1m30s") and plain seconds ("30")
func parseDuration(val string) (time.Duration, bool) {
	if d, err := time.ParseDuration(val); err == nil {
		return d, true
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), true
	}
	return 0, false
}

// parseBool returns true for "true", "1", "yes" (case-insensitive)
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
