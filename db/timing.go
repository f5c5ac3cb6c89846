package db

import (
	"errors"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"gorm.io/gorm"
)

const timingStartKey = "it_inventory:timing_start"

// RegisterTimingCallbacks adds a "db" Server-Timing metric for every statement
// executed with a request context that carries a timing header.
func RegisterTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Query().Before("gorm:query").Register("timing:before_query", beforeTiming),
		cb.Query().After("gorm:query").Register("timing:after_query", afterTiming),
		cb.Create().Before("gorm:create").Register("timing:before_create", beforeTiming),
		cb.Create().After("gorm:create").Register("timing:after_create", afterTiming),
		cb.Update().Before("gorm:update").Register("timing:before_update", beforeTiming),
		cb.Update().After("gorm:update").Register("timing:after_update", afterTiming),
		cb.Delete().Before("gorm:delete").Register("timing:before_delete", beforeTiming),
		cb.Delete().After("gorm:delete").Register("timing:after_delete", afterTiming),
		cb.Row().Before("gorm:row").Register("timing:before_row", beforeTiming),
		cb.Row().After("gorm:row").Register("timing:after_row", afterTiming),
		cb.Raw().Before("gorm:raw").Register("timing:before_raw", beforeTiming),
		cb.Raw().After("gorm:raw").Register("timing:after_raw", afterTiming),
	)
}

func beforeTiming(db *gorm.DB) {
	db.InstanceSet(timingStartKey, time.Now())
}

func afterTiming(db *gorm.DB) {
	v, ok := db.InstanceGet(timingStartKey)
	if !ok || db.Statement == nil || db.Statement.Context == nil {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	timing := servertiming.FromContext(db.Statement.Context)
	if timing == nil {
		return
	}
	m := timing.NewMetric("db").WithDesc(db.Statement.Table)
	m.Duration = time.Since(start)
}
