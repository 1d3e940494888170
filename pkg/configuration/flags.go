package configuration

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var durationType = reflect.TypeOf(time.Duration(0))

// FlagName derives the command-line flag for an env variable: DB_HOST -> db-host.
func FlagName(envName string) string {
	return strings.ToLower(strings.ReplaceAll(envName, "_", "-"))
}

// BindFlags registers one flag per env-tagged field of cfg, defaulting to the
// value already parsed from the environment, so a flag and its env variable
// always address the same setting.
func BindFlags(flags *pflag.FlagSet, cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("BindFlags expects a pointer to a struct, got %T", cfg)
	}
	return bindStruct(flags, v.Elem())
}

func bindStruct(flags *pflag.FlagSet, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := v.Field(i)
		envName := field.Tag.Get("env")
		if envName == "" || envName == "-" {
			if fv.Kind() == reflect.Struct && field.Type != durationType {
				if err := bindStruct(flags, fv); err != nil {
					return err
				}
			}
			continue
		}

		name := FlagName(envName)
		usage := field.Tag.Get("help")
		if usage == "" {
			usage = envName
		}
		usage = fmt.Sprintf("%s (env %s)", usage, envName)

		ptr := fv.Addr().Interface()
		switch p := ptr.(type) {
		case *time.Duration:
			flags.DurationVar(p, name, *p, usage)
		case *string:
			flags.StringVar(p, name, *p, usage)
		case *int:
			flags.IntVar(p, name, *p, usage)
		case *bool:
			flags.BoolVar(p, name, *p, usage)
		default:
			return fmt.Errorf("unsupported flag type %s for %s", field.Type, envName)
		}
	}
	return nil
}
