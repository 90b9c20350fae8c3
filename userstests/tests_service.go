package userstests

import (
	"context"
)

func DoServiceTests(t *T) {
	t.Run("root path answers 200", func(t *T) {
		resp, err := t.Client().Ping(context.Background())
		t.RequireStatus(resp, err, 200)
	})
}
