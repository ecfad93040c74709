package cli

import (
	"fmt"
	"strings"
)

type unknownCountriesError struct {
	codes []string
}

func (e unknownCountriesError) Error() string {
	return fmt.Sprintf("unknown country codes: %s", strings.Join(e.codes, ", "))
}

func errUnknownCountries(codes []string) error {
	return unknownCountriesError{codes: codes}
}

type unknownConfigKeyError struct {
	key string
}

func (e unknownConfigKeyError) Error() string {
	return fmt.Sprintf("unknown config key: %s (known: %s)", e.key, strings.Join(configKeys, ", "))
}

func errUnknownConfigKey(key string) error {
	return unknownConfigKeyError{key: key}
}
