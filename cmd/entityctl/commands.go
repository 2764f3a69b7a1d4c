package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity/dispatcher"
	"github.com/goliatone/go-entity/entity"
	"github.com/goliatone/go-entity/modelerr"
	"github.com/goliatone/go-entity/pkg/backend/sqlstore"
)

func (a *app) putCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "put <kind> <json>",
		Short: "Create or replace an entity",
		Long: `Put stores a JSON object as an entity of kind. Without --id a new
identity is generated. With --id the entity is created or replaced.

Example:
  entityctl put User '{"name":"ada"}'
  entityctl put User --id 42 '{"name":"grace"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(args[0])
			if err != nil {
				return err
			}

			var values map[string]any
			if err := json.Unmarshal([]byte(args[1]), &values); err != nil {
				return fmt.Errorf("parse entity json: %w", err)
			}
			if values == nil {
				values = map[string]any{}
			}

			ctx := cmd.Context()
			write := d.Insert
			if id != "" {
				values[d.Kind().IDField()] = id
				_, err := d.FindByID(ctx, id)
				switch {
				case err == nil:
					write = d.Update
				case !errors.Is(err, modelerr.ErrNotFound):
					return err
				}
			}

			e, err := write(ctx, values)
			if err != nil {
				return err
			}
			return a.print(e)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "identity of the entity")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Print an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(args[0])
			if err != nil {
				return err
			}
			e, err := d.FindByID(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.print(e)
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <kind> <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an entity",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			e, err := d.FindByID(ctx, args[1])
			if err != nil {
				return err
			}
			if _, err := d.Remove(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed %s %s\n", args[0], args[1])
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var count bool
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List the entities of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if count {
				n, err := dispatcher.InvokeAs[int](ctx, d, sqlstore.QueryCount)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, n)
				return nil
			}
			set, err := dispatcher.InvokeAs[*entity.Set](ctx, d, sqlstore.QueryFindAll)
			if err != nil {
				return err
			}
			return a.print(set)
		},
	}
	cmd.Flags().BoolVar(&count, "count", false, "print the number of entities only")
	return cmd
}

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the kinds that have entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := a.store.Kinds(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range kinds {
				fmt.Fprintln(a.out, k)
			}
			return nil
		},
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
