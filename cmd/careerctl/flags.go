package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each flag to the viper key of the same name with dashes
// turned into underscores, so --database-url reads DATABASE_URL when unset.
func bindFlags(v *viper.Viper, flags ...*pflag.Flag) {
	for _, f := range flags {
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	}
}
