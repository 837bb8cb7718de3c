package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"studiolog/internal/flags"
	"studiolog/internal/logging"
)

func newFlagCommand(ctx *commandContext) *cobra.Command {
	flagCmd := &cobra.Command{
		Use:         "flag",
		Short:       "Read and write flag files",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	flagCmd.AddCommand(newFlagSetCommand(ctx))
	flagCmd.AddCommand(newFlagGetCommand(ctx))

	return flagCmd
}

func newFlagSetCommand(ctx *commandContext) *cobra.Command {
	var lock bool

	cmd := &cobra.Command{
		Use:   "set <path> <key> <value>",
		Short: "Set a key in a flag file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key, value := args[0], args[1], args[2]
			write := flags.Write
			if lock {
				write = flags.WriteLocked
			}
			if err := write(path, key, value); err != nil {
				return err
			}
			ctx.logger().Debug("flag written",
				logging.String(logging.FieldPath, path),
				logging.String("key", key),
			)

			values, err := flags.Read(path)
			if err != nil {
				return err
			}
			return renderFlags(cmd, ctx, values)
		},
	}

	cmd.Flags().BoolVar(&lock, "lock", false, "Hold an exclusive lock on <path>.lock while writing")
	return cmd
}

func newFlagGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [key]",
		Short: "Show a flag file or a single key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := flags.Read(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return renderFlags(cmd, ctx, values)
			}

			key := args[1]
			value, ok := values[key]
			if !ok {
				return fmt.Errorf("flag %q not set in %s", key, args[0])
			}
			if ctx.wantJSON() {
				return writeJSON(cmd, value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatFlagValue(value))
			return nil
		},
	}
}

func renderFlags(cmd *cobra.Command, ctx *commandContext, values map[string]any) error {
	if ctx.wantJSON() {
		return writeJSON(cmd, values)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, formatFlagValue(values[key])})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
	return nil
}

func formatFlagValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
