package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tidalshare_v1_202608/internal/model"

	"github.com/go-resty/resty/v2"
)

// ==================== MailService 邮件服务 ====================

// MailConfig 邮件服务配置（Resend 兼容的事务邮件 API）
type MailConfig struct {
	BaseURL string // API 地址，如 https://api.resend.com
	APIKey  string
	Sender  string // 发件人，如 TidalShare <noreply@example.com>
	SiteURL string // 邮件内链接用
}

// MailService 事务邮件服务
// 所有发送都是尽力而为：失败记日志或汇总上报，不重试、不阻断业务
type MailService struct {
	cfg    *MailConfig
	client *resty.Client
}

// NewMailService 创建邮件服务
func NewMailService(cfg *MailConfig) *MailService {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(10 * time.Second)
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	return &MailService{
		cfg:    cfg,
		client: client,
	}
}

// SetSender 运行时切换发件人（站点设置页修改后生效）
func (s *MailService) SetSender(sender string) {
	if sender != "" {
		s.cfg.Sender = sender
	}
}

// ==================== 发送 ====================

// sendRequest 邮件 API 请求体
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendError 邮件 API 错误响应
type sendError struct {
	Message string `json:"message"`
}

// Send 发送单封邮件
func (s *MailService) Send(ctx context.Context, to, subject, html string) error {
	if s.cfg.APIKey == "" {
		return fmt.Errorf("邮件 API Key 未配置")
	}

	var apiErr sendError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&sendRequest{
			From:    s.cfg.Sender,
			To:      []string{to},
			Subject: subject,
			HTML:    html,
		}).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("邮件发送请求失败: %w", err)
	}

	if resp.IsError() {
		// 响应非 JSON 时 resty 不会填充 SetError 目标，退回原始响应体
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		if msg != "" {
			return fmt.Errorf("邮件 API 返回 %d: %s", resp.StatusCode(), msg)
		}
		return fmt.Errorf("邮件 API 返回 %d", resp.StatusCode())
	}

	return nil
}

// ==================== 模板渲染 ====================

// RenderTemplate 替换模板占位符
// 支持 {buyer_name} {tidal_id} {end_date}，未知占位符原样保留
func RenderTemplate(tpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// ==================== 业务邮件 ====================

// SendOrderReceived 下单确认邮件（入金引导）
func (s *MailService) SendOrderReceived(ctx context.Context, order *model.Order, productName string) error {
	subject := fmt.Sprintf("[주문접수] %s 주문이 접수되었습니다", productName)
	html := fmt.Sprintf(`
		<h2>주문이 접수되었습니다</h2>
		<p>%s 님, 주문해 주셔서 감사합니다.</p>
		<p>주문번호: <b>%s</b></p>
		<p>상품: %s</p>
		<p>결제 금액: <b>%s원</b></p>
		<p>입금 확인 후 계정이 배정되며, 배정 완료 시 다시 안내드립니다.</p>
		<p><a href="%s">주문 확인하기</a></p>`,
		order.BuyerName, order.OrderNumber, productName,
		formatWon(order.Amount), s.cfg.SiteURL)

	return s.Send(ctx, order.BuyerEmail, subject, html)
}

// SendAssignmentReady 배정 완료 메일（계정 전달）
func (s *MailService) SendAssignmentReady(ctx context.Context, assignment *model.OrderAccount) error {
	endDate := ""
	if assignment.EndDate != nil {
		endDate = assignment.EndDate.Format("2006-01-02")
	}

	subject := "[계정 배정 완료] 이용 계정이 준비되었습니다"
	html := fmt.Sprintf(`
		<h2>계정 배정이 완료되었습니다</h2>
		<p>%s 님, 주문하신 계정이 배정되었습니다.</p>
		<p>주문번호: %s</p>
		<p>아이디: <b>%s</b></p>
		<p>비밀번호: <b>%s</b></p>
		<p>이용 만료일: %s</p>
		<p>비밀번호는 임의로 변경하지 마세요.</p>`,
		assignment.BuyerName, assignment.OrderNumber,
		assignment.TidalID, assignment.TidalPassword, endDate)

	return s.Send(ctx, assignment.BuyerEmail, subject, html)
}

// SendQnaAnswered 咨询回复通知
func (s *MailService) SendQnaAnswered(ctx context.Context, qna *model.Qna) error {
	subject := "[답변완료] 문의하신 내용에 답변이 등록되었습니다"
	html := fmt.Sprintf(`
		<h2>문의 답변 안내</h2>
		<p>%s 님, 문의하신 내용에 답변이 등록되었습니다.</p>
		<p>문의 제목: %s</p>
		<hr/>
		<p>%s</p>
		<p><a href="%s">사이트에서 확인하기</a></p>`,
		qna.Name, qna.Title, qna.Answer, s.cfg.SiteURL)

	return s.Send(ctx, qna.Email, subject, html)
}

// SendPasswordReset 비밀번호 재설정 코드 메일
func (s *MailService) SendPasswordReset(ctx context.Context, to, code string) error {
	subject := "[인증코드] 비밀번호 재설정 안내"
	html := fmt.Sprintf(`
		<h2>비밀번호 재설정</h2>
		<p>아래 인증코드를 입력해 주세요.</p>
		<p style="font-size:24px"><b>%s</b></p>
		<p>본인이 요청하지 않았다면 이 메일을 무시하세요.</p>`, code)

	return s.Send(ctx, to, subject, html)
}

// formatWon 金额加千分位（韩元无小数）
func formatWon(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
