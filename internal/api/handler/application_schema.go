package handler

import (
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type applyRequest struct {
	CoverLetter string `json:"cover_letter" validate:"max=2000"`
}

type updateApplicationRequest struct {
	CoverLetter *string `json:"cover_letter" validate:"omitempty,max=2000"`
	Status      *string `json:"status"`
}

func (r updateApplicationRequest) toPatch() ports.ApplicationPatch {
	p := ports.ApplicationPatch{CoverLetter: r.CoverLetter}
	if r.Status != nil {
		s := domain.ApplicationStatus(*r.Status)
		p.Status = &s
	}
	return p
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type applicationResponse struct {
	*domain.JobApplication
	DaysSinceApplied    int  `json:"days_since_applied"`
	IsRecentApplication bool `json:"is_recent_application"`
}

func toApplicationResponse(v ports.ApplicationView) applicationResponse {
	return applicationResponse{
		JobApplication:      v.Application,
		DaysSinceApplied:    v.DaysSinceApplied,
		IsRecentApplication: v.IsRecentApplication,
	}
}

type applicationListResponse struct {
	Applications []applicationResponse `json:"applications"`
	Meta         pageMeta              `json:"meta"`
}

func toApplicationList(page ports.Page[ports.ApplicationView]) applicationListResponse {
	out := make([]applicationResponse, 0, len(page.Items))
	for _, v := range page.Items {
		out = append(out, toApplicationResponse(v))
	}
	return applicationListResponse{Applications: out, Meta: metaOf(page)}
}

type historyResponse struct {
	ApplicationID string                `json:"application_id"`
	History       []domain.StatusChange `json:"history"`
}
