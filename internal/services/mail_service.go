package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("⚠️ MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: SenLin 通讯员 <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("❌ Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("✅ Email sent to %v: %s", to, subject)
		}
	}()
}

// SendActivationEmail 发送激活码邮件
func (s *MailService) SendActivationEmail(to string, code string) {
	body := fmt.Sprintf(`
		<p>欢迎加入 SenLin 🌲</p>
		<p>您的激活码是：<strong>%s</strong></p>
		<p>请登录后在激活页面输入该激活码完成注册。</p>`, code)
	s.sendAsync([]string{to}, "欢迎加入 SenLin - 激活您的账号", body)
}

// SendResetEmail 发送重置密码验证码
func (s *MailService) SendResetEmail(to string, code string) {
	body := fmt.Sprintf(`
		<p>您正在重置 SenLin 账号密码。</p>
		<p>验证码：<strong>%s</strong></p>
		<p>如果这不是您本人的操作，请忽略这封邮件。</p>`, code)
	s.sendAsync([]string{to}, "SenLin 密码重置", body)
}
