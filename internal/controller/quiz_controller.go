package controller

import (
	"errors"
	"strconv"

	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 出题模式
const (
	ModeSection  = "section"
	ModePractice = "practice"
	ModeRandom   = "random"
	ModeWeakness = "weakness"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// StartQuiz godoc
// @Summary 开始测验
// @Description 按模式出题。section 模式 chapter=0 表示全章节；
// @Description practice 模式 count 省略或 all 表示全部题目
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param mode query string true "出题模式" Enums(section, practice, random, weakness)
// @Param chapter query int false "章节号（section模式）"
// @Param count query string false "题数或 all（practice模式）"
// @Success 200 {object} util.Response{data=service.StartQuizResponse}
// @Failure 400 {object} util.Response "题库中没有符合条件的题目"
// @Router /api/quiz/start [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	var resp *service.StartQuizResponse
	var err error

	switch ctx.Query("mode") {
	case ModeSection:
		chapter := 0
		if chStr := ctx.Query("chapter"); chStr != "" && chStr != "all" {
			chapter, err = strconv.Atoi(chStr)
			if err != nil {
				util.BadRequest(ctx, "invalid chapter")
				return
			}
		}
		resp, err = c.Service.StartSection(chapter)
	case ModePractice:
		count := 0
		if cntStr := ctx.Query("count"); cntStr != "" && cntStr != "all" {
			count, err = strconv.Atoi(cntStr)
			if err != nil || count < 1 {
				util.BadRequest(ctx, "invalid count")
				return
			}
		}
		resp, err = c.Service.StartPractice(count)
	case ModeRandom:
		resp, err = c.Service.StartRandomMock()
	case ModeWeakness:
		resp, err = c.Service.StartWeaknessMock()
	default:
		util.BadRequest(ctx, "unknown quiz mode")
		return
	}

	if err != nil {
		if errors.Is(err, util.ErrNoQuestions) || errors.Is(err, util.ErrInvalidChapter) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	ExamType string `json:"examType" binding:"required"`
	// QuestionIDs 是出题时返回的规范顺序，判分按这个顺序重建，
	// 不信任存储层的查询顺序
	QuestionIDs []uint       `json:"questionIds" binding:"required"`
	Answers     map[uint]int `json:"answers"`
}

// SubmitQuiz godoc
// @Summary 提交答案
// @Description 判分、落库并返回每题回顾。未作答的题按答错计
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitQuizRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitQuizResponse}
// @Failure 400 {object} util.Response
// @Router /api/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if len(req.QuestionIDs) == 0 {
		util.BadRequest(ctx, "questionIds must not be empty")
		return
	}

	resp, err := c.Service.Submit(claims.UserID, req.ExamType, req.QuestionIDs, req.Answers)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// QuizHistory godoc
// @Summary 历史成绩
// @Description 按时间倒序分页返回本人的测验记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=[]service.HistoryItem}
// @Router /api/quiz/history [get]
func (c *QuizController) QuizHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := c.Service.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
