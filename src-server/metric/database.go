package metric

import (
	"context"
	"fmt"
	"time"

	"weddinvite/src-server/model"
	"weddinvite/src-server/utils"
)

// database times a minimal read against the groups table.
func database(as *utils.AppState) (time.Duration, error) {
	startTimer := time.Now()
	if _, err := as.BunDB.
		NewSelect().
		Model((*model.InvitationGroup)(nil)).
		Limit(1).
		Count(context.Background()); err != nil {
		return 0, fmt.Errorf("metric.database: %w", err)
	}
	return time.Since(startTimer), nil
}
