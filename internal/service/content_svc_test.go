package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"tidalshare_v1_202608/internal/api/dto"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
)

func setupContentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupServiceDB(t)
	if err := db.AutoMigrate(&model.Notice{}, &model.FAQ{}, &model.Qna{}); err != nil {
		t.Fatalf("自动建表失败: %v", err)
	}
	return db
}

func newContentService(db *gorm.DB, mail *MailService) *ContentService {
	return NewContentService(
		repository.NewNoticeRepository(db),
		repository.NewFAQRepository(db),
		repository.NewQnaRepository(db),
		mail,
	)
}

func TestCreateQnaDefaultsPending(t *testing.T) {
	db := setupContentTestDB(t)
	svc := newContentService(db, nil)

	qna, err := svc.CreateQna(context.Background(), &dto.CreateQnaRequest{
		Name:    "김철수",
		Email:   "chulsu@example.com",
		Title:   "계정 관련 문의",
		Content: "문의 내용입니다",
	})
	if err != nil {
		t.Fatalf("CreateQna() error = %v", err)
	}
	if qna.Status != model.QnaStatusPending {
		t.Errorf("Status = %q, want %q", qna.Status, model.QnaStatusPending)
	}
}

func TestAnswerQnaSendsMail(t *testing.T) {
	db := setupContentTestDB(t)

	var captured sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"id":"mail_1"}`))
	}))
	defer srv.Close()

	mail := NewMailService(&MailConfig{BaseURL: srv.URL, APIKey: "test-key", Sender: "x"})
	svc := newContentService(db, mail)

	qna, err := svc.CreateQna(context.Background(), &dto.CreateQnaRequest{
		Name:    "김철수",
		Email:   "chulsu@example.com",
		Title:   "계정 관련 문의",
		Content: "문의 내용입니다",
	})
	if err != nil {
		t.Fatalf("CreateQna() error = %v", err)
	}

	if err := svc.AnswerQna(context.Background(), qna.ID, &dto.AnswerQnaRequest{
		Answer: "답변입니다",
	}); err != nil {
		t.Fatalf("AnswerQna() error = %v", err)
	}

	got, err := svc.GetQna(context.Background(), qna.ID)
	if err != nil {
		t.Fatalf("GetQna() error = %v", err)
	}
	if got.Status != model.QnaStatusAnswered {
		t.Errorf("Status = %q, want %q", got.Status, model.QnaStatusAnswered)
	}
	if got.Answer != "답변입니다" || got.AnsweredAt == nil {
		t.Errorf("Answer = %q, AnsweredAt = %v", got.Answer, got.AnsweredAt)
	}

	if len(captured.To) != 1 || captured.To[0] != "chulsu@example.com" {
		t.Errorf("通知收件人 = %v, want [chulsu@example.com]", captured.To)
	}
}

func TestAnswerQnaNotFound(t *testing.T) {
	db := setupContentTestDB(t)
	svc := newContentService(db, nil)

	err := svc.AnswerQna(context.Background(), 42, &dto.AnswerQnaRequest{Answer: "x"})
	if !errors.Is(err, ErrContentNotFound) {
		t.Errorf("AnswerQna() error = %v, want ErrContentNotFound", err)
	}
}

func TestProductSlugConflict(t *testing.T) {
	db := setupContentTestDB(t)
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewPlanRepository(db),
	)

	req := &dto.CreateProductRequest{Name: "Tidal HiFi", Slug: "tidal-hifi"}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := svc.Create(context.Background(), &dto.CreateProductRequest{Name: "Another", Slug: "tidal-hifi"})
	if !errors.Is(err, ErrSlugExists) {
		t.Errorf("Create() error = %v, want ErrSlugExists", err)
	}
}
