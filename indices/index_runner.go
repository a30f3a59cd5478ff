package indices

import (
	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// NightlySyncSpec full rebuild at 23:00 every day
var NightlySyncSpec = "0 0 23 * * ?"

// StartCron schedules the nightly full rebuild, the returned cron must be stopped on shutdown
func StartCron() (*cron.Cron, error) {
	crontab := cron.New(cron.WithSeconds())
	if _, err := crontab.AddFunc(NightlySyncSpec, nightlySync); err != nil {
		return nil, err
	}
	crontab.Start()
	return crontab, nil
}

func nightlySync() {
	lock.Lock()
	if running {
		lock.Unlock()
		logrus.Info("nightly sync skipped, a sync is running")
		return
	}
	running = true
	lock.Unlock()
	defer func() {
		lock.Lock()
		running = false
		lock.Unlock()
	}()

	if err := IndicesFullSyncFunc(); err != nil {
		logrus.Error("nightly sync: ", err)
	}
}
