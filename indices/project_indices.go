package indices

import (
	"context"
	"fmt"

	"fieldflow/client/es"
	"fieldflow/domain/project"
	"fieldflow/event"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	ProjectIndexName = "projects"

	ProjectIndexEventHandlerName = "projectIndexer"

	indexRobot = &session.Session{
		Token:    "index-robot",
		Role:     session.RoleAdmin,
		Identity: session.Identity{ID: 10, Name: "index-robot", Nickname: "index-robot"},
		Context:  context.Background(),
	}
)

type ProjectDocument struct {
	project.Project
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexProjects(projects []project.Project) error {
	errs := BatchActionError{}
	for _, p := range projects {
		doc := ProjectDocument{Project: p}
		if err := es.IndexFunc(ProjectIndexName, doc.ID, doc, indexRobot); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index project %d %s %s\n", doc.ID, doc.Identifier, err)
		} else {
			logrus.Infof("index project %d %s successfully\n", doc.ID, doc.Identifier)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IndexProjectEventHandle keeps the search index in step with project events.
func IndexProjectEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypeProject {
		return nil
	}

	p, err := project.DetailProjectFunc(e.Event.SourceId.String(), indexRobot)
	if err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("detail project when index project %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: ProjectIndexEventHandlerName,
		}
	}
	if err := IndexProjects([]project.Project{*p}); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index project %d, %v", e.Event.SourceId, err),
			HandlerIdentifier: ProjectIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: ProjectIndexEventHandlerName}
}
