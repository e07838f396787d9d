package indices

import (
	"fmt"
	"sync"

	"fieldflow/bizerror"
	"fieldflow/domain/project"
	"fieldflow/session"

	"github.com/sirupsen/logrus"
)

var (
	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun
)

func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.IsAdmin() {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

var (
	SyncBatchSize      = 500
	SyncMaxLoadRetries = 3
)

func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			e, ok := ret.(error)
			if ok {
				err = e
			} else {
				err = fmt.Errorf("error on indices full sync: %v", ret)
			}
		}
	}()

	page := 1
	loadFailures := 0
	for {
		projects, err := project.LoadProjectsFunc(page, SyncBatchSize)
		if err != nil {
			logrus.Warnf("indices fully sync: error on retrieve projects(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
			loadFailures++
			if loadFailures >= SyncMaxLoadRetries {
				logrus.Errorf("indices fully sync: aborted after %d load failures", loadFailures)
				return err
			}
			continue
		}
		loadFailures = 0

		if len(projects) == 0 {
			logrus.Infof("indices fully sync: there are no more projects to index")
			return nil // loop exit
		}

		if err := IndexProjects(projects); err != nil {
			logrus.Warnf("indices fully sync: error on index projects(page = %d, pageSize = %d): %v", page, SyncBatchSize, err)
		}
		page++
	}
}
