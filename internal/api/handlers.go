package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/trestle/internal/contract"
	"github.com/alexanderramin/trestle/internal/domain"
)

// pathID reads the :id parameter, answering 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func ok(c *gin.Context, id int64) {
	c.JSON(http.StatusOK, contract.MutationResponse{Success: true, ID: id})
}

func (s *Server) listProjects(c *gin.Context) {
	list, err := s.svc.Projects.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]contract.Project, 0, len(list))
	for _, p := range list {
		out = append(out, contract.ProjectFromDomain(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProject(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	p, err := s.svc.Projects.GetByID(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.ProjectFromDomain(p))
}

func (s *Server) createProject(c *gin.Context) {
	var req contract.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	p := &domain.Project{
		Name:       req.Name,
		Location:   req.Location,
		TargetDate: domain.ParseDate(req.TargetDate),
	}
	if start := domain.ParseDate(req.StartDate); start != nil {
		p.StartDate = *start
	}
	if err := s.svc.Projects.Create(c.Request.Context(), p); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.MutationResponse{Success: true, ID: p.ID})
}

func (s *Server) listStages(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	list, err := s.svc.Stages.ListByProject(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]contract.Stage, 0, len(list))
	for _, st := range list {
		out = append(out, contract.StageFromDomain(st))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createStage(c *gin.Context) {
	projectID, valid := pathID(c)
	if !valid {
		return
	}
	var req contract.StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	st := stageFromRequest(req)
	st.ProjectID = projectID
	if err := s.svc.Stages.Create(c.Request.Context(), st); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.MutationResponse{Success: true, ID: st.ID})
}

func (s *Server) editStage(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req contract.StageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	st := stageFromRequest(req)
	st.ID = id
	if err := s.svc.Stages.Update(c.Request.Context(), st); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func (s *Server) deleteStage(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := s.svc.Stages.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func (s *Server) listTasks(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	list, err := s.svc.Tasks.ListByStage(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	out := make([]contract.Task, 0, len(list))
	for _, t := range list {
		out = append(out, contract.TaskFromDomain(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createTask(c *gin.Context) {
	stageID, valid := pathID(c)
	if !valid {
		return
	}
	var req contract.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	t := &domain.Task{
		StageID:         stageID,
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       domain.ParseDate(req.StartDate),
		ExpectedEndDate: domain.ParseDate(req.ExpectedEndDate),
	}
	if err := s.svc.Tasks.Create(c.Request.Context(), t); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.MutationResponse{Success: true, ID: t.ID})
}

func (s *Server) editTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req contract.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	if _, err := s.svc.Tasks.Edit(c.Request.Context(), id, req.Name, req.Description); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := s.svc.Tasks.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func (s *Server) completeTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if _, err := s.svc.Tasks.Complete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func (s *Server) uncheckTask(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if _, err := s.svc.Tasks.Uncheck(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, id)
}

func stageFromRequest(req contract.StageRequest) *domain.Stage {
	return &domain.Stage{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   domain.ParseDate(req.StartDate),
		EndDate:     domain.ParseDate(req.EndDate),
	}
}
