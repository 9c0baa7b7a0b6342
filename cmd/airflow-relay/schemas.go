package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aalemi-dev/airflow-relay/config"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

type shapeSchemas struct {
	Kind    string                 `json:"kind"`
	Version string                 `json:"version"`
	Key     json.RawMessage        `json:"key"`
	Value   json.RawMessage        `json:"value"`
	Example map[string]interface{} `json:"example,omitempty"`
}

func printSchemas(c *cli.Context) error {
	shapes, err := selectShapes(c.String("kind"), c.String("source-version"))
	if err != nil {
		return err
	}
	return writeSchemas(c.App.Writer, shapes, c.Bool("examples"))
}

func selectShapes(kind, version string) ([]*record.Shape, error) {
	shapes := record.Shapes()
	if kind != "" {
		k, err := record.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		shapes = lo.Filter(shapes, func(s *record.Shape, _ int) bool { return s.ID.Kind == k })
	}
	if version != "" {
		v, err := record.ParseVersion(version)
		if err != nil {
			return nil, err
		}
		shapes = lo.Filter(shapes, func(s *record.Shape, _ int) bool { return s.ID.Version == v })
	}
	return shapes, nil
}

func writeSchemas(w io.Writer, shapes []*record.Shape, examples bool) error {
	out := make([]shapeSchemas, 0, len(shapes))
	for _, s := range shapes {
		key, err := s.Key.Avro()
		if err != nil {
			return err
		}
		value, err := s.Value.Avro()
		if err != nil {
			return err
		}
		entry := shapeSchemas{
			Kind:    s.ID.Kind.String(),
			Version: s.ID.Version.String(),
			Key:     json.RawMessage(key),
			Value:   json.RawMessage(value),
		}
		if examples {
			entry.Example = s.Example()
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var errIncompatible = errors.New("one or more schemas are incompatible with the registry")

func checkSchemas(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return err
	}
	if cfg.SchemaRegistry == nil {
		return errors.New("SCHEMA_REGISTRY_URL is not set")
	}
	client, err := schema_registry.NewClient(*cfg.SchemaRegistry)
	if err != nil {
		return err
	}
	return runCheck(c.Context, c.App.Writer, client, cfg.Topics)
}

// runCheck reports, per subject, whether the local schema could be
// registered without breaking the subject's compatibility rules.
func runCheck(ctx context.Context, w io.Writer, registry schema_registry.Registry, topics *record.TopicTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tSHAPE\tRESULT")

	failed := false
	for _, topic := range topics.Topics() {
		id, err := topics.Resolve(topic)
		if err != nil {
			return err
		}
		shape, err := record.Lookup(id.Kind, id.Version)
		if err != nil {
			return err
		}

		for _, part := range []struct {
			role   schema_registry.Role
			schema *record.Schema
		}{
			{schema_registry.RoleKey, shape.Key},
			{schema_registry.RoleValue, shape.Value},
		} {
			subject := schema_registry.Subject(topic, part.role)
			avro, err := part.schema.Avro()
			if err != nil {
				return err
			}

			result := "compatible"
			ok, err := registry.CheckCompatibility(ctx, subject, avro, schema_registry.SchemaTypeAvro)
			switch {
			case err != nil:
				result = "error: " + err.Error()
				failed = true
			case !ok:
				result = "incompatible"
				failed = true
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", subject, id, result)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	if failed {
		return errIncompatible
	}
	return nil
}
