package output

import (
	"context"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	json "github.com/goccy/go-json"
)

// Query evaluates a JSONPath expression against the JSON form of v, e.g.
// "$.ledger['2030'].personal_net_assets" on a document. Decimal figures are
// returned as their string encoding.
func Query(ctx context.Context, v any, path string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("query encode: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("query decode: %w", err)
	}
	eval, err := jsonpath.New(path)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", path, err)
	}
	out, err := eval(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return out, nil
}
