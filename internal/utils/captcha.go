package utils

import "github.com/mojocn/base64Captcha"

// 验证码答案存内存即可，重启后旧验证码作废
var captchaStore = base64Captcha.DefaultMemStore

// MakeCaptcha 生成一张 4 位数字验证码图片。
// 返回验证码 id 和图片的 base64 串，answer 仅用于测试。
func MakeCaptcha() (id, b64s string, answer string, err error) {
	driver := base64Captcha.NewDriverDigit(80, 240, 4, 0.7, 80)
	c := base64Captcha.NewCaptcha(driver, captchaStore)
	return c.Generate()
}

// VerifyCaptcha 校验答案，校验后立即作废。
func VerifyCaptcha(id string, answer string) bool {
	return captchaStore.Verify(id, answer, true)
}
