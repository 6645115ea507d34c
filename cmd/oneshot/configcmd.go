package main

import (
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var dump = jsoniter.Config{
	TagKey:        "mapstructure",
	IndentionStep: 2,
	SortMapKeys:   true,
}.Froze()

func init() {
	// durations are printed the way they are written in config files
	jsoniter.RegisterTypeEncoderFunc("time.Duration", func(ptr unsafe.Pointer, stream *jsoniter.Stream) {
		stream.WriteString((*(*time.Duration)(ptr)).String())
	}, nil)
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			data, err := dump.Marshal(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err = out.Write(data); err != nil {
				return err
			}

			_, err = out.Write([]byte("\n"))
			return err
		},
	}
}
