package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// extractFirstID pulls the first prospect id out of `prospects list` JSON
// output.
func extractFirstID(t *testing.T, jsonOut string) string {
	t.Helper()
	var rows []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &rows))
	require.NotEmpty(t, rows)
	return rows[0].ID
}
