package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExerciseController 处理运动记录请求
type ExerciseController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewExerciseController 创建运动记录控制器
func NewExerciseController(ctx *gin.Context, container *container.ServiceContainer) *ExerciseController {
	return &ExerciseController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleExerciseFunc 返回一个处理运动记录请求的Gin处理函数
func HandleExerciseFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewExerciseController(ctx, container)

		switch method {
		case "logExercise":
			controller.LogExercise()
		case "getToday":
			controller.GetToday()
		case "getRecords":
			controller.GetRecords()
		case "getWeekSummary":
			controller.GetWeekSummary()
		case "getMonthSummary":
			controller.GetMonthSummary()
		case "export":
			controller.Export()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. LogExercise 记录一次运动，并清除该用户的汇总缓存
func (c *ExerciseController) LogExercise() {
	var req services.ExerciseInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Ctx, code.ErrInvalidExercise)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	record, err := c.exerciseService().LogExercise(c.Ctx.Request.Context(), user, req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	middleware.PurgeUserCache(user.ID)
	response.OK(c.Ctx, gin.H{"id": record.ID})
}

// 2. GetToday 今天最新的记录
func (c *ExerciseController) GetToday() {
	user := middleware.CurrentUser(c.Ctx)
	record, err := c.exerciseService().Today(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"record": record})
}

// 3. GetRecords 记录列表，支持 from/to/limit
func (c *ExerciseController) GetRecords() {
	query, ok := c.recordsQuery()
	if !ok {
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	records, err := c.exerciseService().Records(c.Ctx.Request.Context(), user.ID, query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"records": records})
}

// 4. GetWeekSummary 最近7天汇总
func (c *ExerciseController) GetWeekSummary() {
	user := middleware.CurrentUser(c.Ctx)
	records, summary, err := c.exerciseService().WeekSummary(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"records": records, "summary": summary})
}

// 5. GetMonthSummary 本月汇总
func (c *ExerciseController) GetMonthSummary() {
	user := middleware.CurrentUser(c.Ctx)
	records, summary, err := c.exerciseService().MonthSummary(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"records": records, "summary": summary})
}

// 6. Export 导出 xlsx
func (c *ExerciseController) Export() {
	query, ok := c.recordsQuery()
	if !ok {
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	data, err := c.exerciseService().Export(c.Ctx.Request.Context(), user.ID, query)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	filename := fmt.Sprintf("exercise-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Ctx.Data(http.StatusOK, xlsxContentType, data)
}

func (c *ExerciseController) recordsQuery() (services.RecordsQuery, bool) {
	query := services.RecordsQuery{
		From: c.Ctx.Query("from"),
		To:   c.Ctx.Query("to"),
	}
	if v := c.Ctx.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.BadRequest(c.Ctx)
			return query, false
		}
		query.Limit = limit
	}
	return query, true
}

func (c *ExerciseController) exerciseService() services.InterfaceExerciseService {
	return c.Container.GetService("exercise").(services.InterfaceExerciseService)
}
