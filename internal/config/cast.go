package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/cast"
)

func castInt(value interface{}) (int, error) {
	return cast.ToIntE(value)
}

func castBool(value interface{}) (bool, error) {
	return cast.ToBoolE(value)
}

func castDuration(value interface{}) (time.Duration, error) {
	return cast.ToDurationE(value)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
