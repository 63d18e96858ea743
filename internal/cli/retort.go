package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"crownbind/internal/mapping"
	"crownbind/internal/schema"
	"crownbind/morph"
	"crownbind/provider"
	"crownbind/retort"
	"crownbind/shape"
)

// session is a schema and the retort built over it.
type session struct {
	schema *schema.Schema
	retort *retort.Retort
	record *shape.Record
}

func openSession(schemaPath, mappingPath, record string) (*session, error) {
	f, err := schema.LoadFile(schemaPath)
	if err != nil {
		return nil, invalidArgument(err)
	}

	s, err := f.Build()
	if err != nil {
		return nil, err
	}

	rec, ok := s.Record(record)
	if !ok {
		return nil, notFound("record %q is not declared in %s", record, schemaPath)
	}

	trail, err := morph.ParseDebugTrail(viper.GetString("debug_trail"))
	if err != nil {
		return nil, invalidArgument(err)
	}

	var recipe []provider.Provider

	if mappingPath != "" {
		mf, err := mapping.LoadFile(mappingPath)
		if err != nil {
			return nil, invalidArgument(err)
		}

		recipe, err = mf.Providers(s.Types())
		if err != nil {
			return nil, err
		}
	}

	r := retort.New(
		retort.WithDebugTrail(trail),
		retort.WithStrictCoercion(viper.GetBool("strict")),
		retort.WithRecipe(recipe...),
		retort.WithLogger(log.Logger),
	)

	log.Debug().
		Str("schema", schemaPath).
		Str("record", record).
		Stringer("trail", trail).
		Int("mapping_providers", len(recipe)).
		Msg("session opened")

	return &session{schema: s, retort: r, record: rec}, nil
}
