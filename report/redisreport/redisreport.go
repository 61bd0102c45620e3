/*
Package redisreport provides a report.Reporter that stores reports on a Redis
server.
*/
package redisreport

import (
	"context"
	"fmt"

	"github.com/arbolado/chitree/report"
	"gopkg.in/redis.v5"
)

type redisReporter struct {
	rc     *redis.Client
	prefix string
}

/*
New takes a Redis client and a prefix and returns a report.Reporter that
stores every report as a hash on the key <prefix>:report:<name> and pushes
its name to the list on the key <prefix>:reports, most recent first.
*/
func New(rc *redis.Client, prefix string) report.Reporter {
	return &redisReporter{rc, prefix}
}

func (rr *redisReporter) Report(ctx context.Context, r *report.Report) error {
	if r.Name == "" {
		return fmt.Errorf("storing report on redis: report has no name")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := rr.rc.HMSet(rr.reportKey(r.Name), r.Fields()).Err()
	if err != nil {
		return fmt.Errorf("storing report %s on redis: %w", r.Name, err)
	}
	err = rr.rc.LPush(rr.listKey(), r.Name).Err()
	if err != nil {
		return fmt.Errorf("listing report %s on redis: %w", r.Name, err)
	}
	return nil
}

func (rr *redisReporter) reportKey(name string) string {
	return rr.keyFor(fmt.Sprintf("report:%s", name))
}

func (rr *redisReporter) listKey() string {
	return rr.keyFor("reports")
}

func (rr *redisReporter) keyFor(k string) string {
	if rr.prefix == "" {
		return k
	}
	return fmt.Sprintf("%s:%s", rr.prefix, k)
}
