package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

// NewDumpCommand creates the dump command
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every key of the database in key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, rootOpts)
		},
	}
}

func runDump(cmd *cobra.Command, opts *RootOptions) (err error) {
	e, err := open(cmd, opts, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()
	out := cmd.OutOrStdout()

	counts := make(map[storage.Tag]int)
	err = e.store.Map(nil, func(key storage.Key, value []byte) error {
		tag, _, err := storage.DecodeKey(key)
		if err != nil {
			fmt.Fprintf(out, "%-15s %s  %d bytes  (%v)\n", "?", key, len(value), err)
			return nil
		}
		counts[tag]++
		fmt.Fprintf(out, "%-15s %s  %d bytes\n", tag, key, len(value))
		return nil
	})
	if err != nil {
		return err
	}

	for _, tag := range []storage.Tag{
		storage.ContainerTag,
		storage.ContainerImageTag,
		storage.ItemTag,
		storage.ItemImageTag,
		storage.SessionTag,
	} {
		fmt.Fprintf(out, "# %s: %d\n", tag, counts[tag])
	}
	return nil
}
