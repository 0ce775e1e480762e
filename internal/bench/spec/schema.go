package spec

import (
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
	"github.com/DjordjeVuckovic/sortbench/pkg/schema"
)

const SchemaBaseID = "https://github.com/DjordjeVuckovic/sortbench/schemas"

// JSONSchema describes the bench spec YAML for editors and linters.
func JSONSchema() (string, error) {
	g := schema.NewGenerator(
		schema.WithTagName("yaml"),
		schema.WithBaseID(SchemaBaseID),
		schema.WithEnum("dataset", dataset.Names()),
		schema.WithEnum("algorithm", algo.Names()),
	)
	return g.GenerateJSONSchema(BenchSpec{})
}
