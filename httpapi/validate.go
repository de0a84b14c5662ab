package httpapi

import (
	"github.com/siamwallet/authcore/pkg/validator"
)

func validateLogin(req loginRequest) validator.ValidationErrors {
	err := validator.Apply(
		validator.MinLen("username", req.Username, 3, "ชื่อผู้ใช้ต้องมีอย่างน้อย 3 ตัวอักษร"),
		validator.MinLen("password", req.Password, 4, "รหัสผ่านต้องมีอย่างน้อย 4 ตัวอักษร"),
	)
	return validator.Extract(err)
}

func validateRegister(req registerRequest) validator.ValidationErrors {
	rules := []validator.Rule{
		validator.MinLen("username", req.Username, 3, "ชื่อผู้ใช้ต้องมีอย่างน้อย 3 ตัวอักษร"),
		validator.MaxLen("username", req.Username, 50, "ชื่อผู้ใช้ต้องไม่เกิน 50 ตัวอักษร"),
		validator.Matches("username", req.Username, usernamePattern,
			"ชื่อผู้ใช้ต้องเป็นตัวอักษรภาษาอังกฤษ ตัวเลข หรือ _ เท่านั้น"),
		validator.MinLen("password", req.Password, 6, "รหัสผ่านต้องมีอย่างน้อย 6 ตัวอักษร"),
		validator.MaxLen("password", req.Password, 100, "รหัสผ่านยาวเกินไป"),
		validator.Equals("confirmPassword", req.ConfirmPassword, req.Password, "รหัสผ่านไม่ตรงกัน"),
	}

	if req.Phone != nil {
		rules = append(rules, validator.Optional(*req.Phone,
			validator.Matches("phone", *req.Phone, phonePattern, "เบอร์โทรศัพท์ไม่ถูกต้อง")))
	}
	if req.FullName != nil {
		rules = append(rules, validator.MaxLen("fullName", *req.FullName, 100, "ชื่อเต็มยาวเกินไป"))
	}
	if req.BankCode != nil {
		rules = append(rules, validator.MaxLen("bankCode", *req.BankCode, 20, "รหัสธนาคารไม่ถูกต้อง"))
	}
	if req.BankAccount != nil {
		rules = append(rules, validator.MaxLen("bankAccount", *req.BankAccount, 50, "เลขบัญชีไม่ถูกต้อง"))
	}
	if req.ReferralCode != nil {
		rules = append(rules, validator.MaxLen("referralCode", *req.ReferralCode, 20, "รหัสแนะนำไม่ถูกต้อง"))
	}

	return validator.Extract(validator.Apply(rules...))
}

func validateUpdateProfile(req updateProfileRequest) validator.ValidationErrors {
	var rules []validator.Rule

	if req.Phone != nil {
		rules = append(rules, validator.Optional(*req.Phone,
			validator.Matches("phone", *req.Phone, phonePattern, "เบอร์โทรศัพท์ไม่ถูกต้อง")))
	}
	if req.FullName != nil {
		rules = append(rules, validator.MaxLen("fullName", *req.FullName, 100, "ชื่อเต็มยาวเกินไป"))
	}
	if req.BankCode != nil {
		rules = append(rules, validator.MaxLen("bankCode", *req.BankCode, 20, "รหัสธนาคารไม่ถูกต้อง"))
	}
	if req.BankAccount != nil {
		rules = append(rules, validator.MaxLen("bankAccount", *req.BankAccount, 50, "เลขบัญชีไม่ถูกต้อง"))
	}

	return validator.Extract(validator.Apply(rules...))
}
