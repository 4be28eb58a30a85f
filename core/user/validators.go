package user

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/lms/core"
)

var (
	roleTag  = "role"
	roleText = "{0} must be one of " + strings.Join(AllRoles, ", ")

	subjectRequiredTag  = "subjectrequired"
	subjectRequiredText = "professors and students belong to a department"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "password is too common"
	commonPasswords []string
)

// InitValidators registers the user validators on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	validate.RegisterStructValidation(passwordResetStructValidation, PasswordReset{})
	core.RegisterCustomTranslation(validate, translator, subjectRequiredTag, subjectRequiredText)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdNoCommonTag, pwdNoCommonText)
}

// LoadCommonPasswords reads the gzipped list of common passwords (one per line) at path.
func LoadCommonPasswords(path string, logger core.Logger) {
	file, err := os.Open(path)
	if err != nil {
		logger.Warn(fmt.Sprintf("common passwords not loaded: %v", err))
		return
	}
	defer func() { _ = file.Close() }()

	gzRdr, err := gzip.NewReader(file)
	if err != nil {
		logger.Warn(fmt.Sprintf("common passwords not loaded: %v", err))
		return
	}
	pwds := make([]string, 0, 20000)
	scanner := bufio.NewScanner(gzRdr)
	for scanner.Scan() {
		pwds = append(pwds, strings.ToLower(strings.TrimSpace(scanner.Text())))
	}
	sort.Strings(pwds)
	commonPasswords = pwds
}

func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	if nu.Role != RoleAdministrator && nu.Subject == "" {
		sl.ReportError(nu.Subject, "subject", "Subject", subjectRequiredTag, "")
	}
	if tag := checkPassword(nu.Password, nu.FirstName, nu.LastName, nu.UID); tag != "" {
		sl.ReportError(nu.Password, "password", "Password", tag, "")
	}
}

func passwordResetStructValidation(sl validator.StructLevel) {
	pr, ok := sl.Current().Interface().(PasswordReset)
	if !ok {
		return
	}
	if tag := checkPassword(pr.Password, pr.firstName, pr.lastName, pr.UID); tag != "" {
		sl.ReportError(pr.Password, "password", "Password", tag, "")
	}
}

// passwordRule reports whether pwd breaks it; attrs are the owner's uid and names.
type passwordRule struct {
	tag    string
	broken func(pwd string, attrs []string) bool
}

// passwordPolicy is checked in order; only the first broken rule is reported.
var passwordPolicy = []passwordRule{
	{pwdMinLenTag, func(pwd string, _ []string) bool {
		return len(pwd) < pwdMinLen
	}},
	{pwdNoSpaceTag, func(pwd string, _ []string) bool {
		return strings.IndexFunc(pwd, unicode.IsSpace) >= 0
	}},
	{pwdNotAllNumTag, func(pwd string, _ []string) bool {
		return strings.IndexFunc(pwd, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
	}},
	{pwdComplexityTag, func(pwd string, _ []string) bool {
		return !(strings.IndexFunc(pwd, unicode.IsUpper) >= 0 &&
			strings.IndexFunc(pwd, unicode.IsLower) >= 0 &&
			strings.IndexFunc(pwd, unicode.IsDigit) >= 0 &&
			specialRegex.MatchString(pwd))
	}},
	{pwdAttrSimTag, func(pwd string, attrs []string) bool {
		for _, attr := range attrs {
			if attr == "" {
				continue
			}
			m := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, ""))
			if m.QuickRatio() >= pwdMaxSim {
				return true
			}
		}
		return false
	}},
	{pwdNoCommonTag, func(pwd string, _ []string) bool {
		lpwd := strings.ToLower(pwd)
		idx := sort.SearchStrings(commonPasswords, lpwd)
		return idx < len(commonPasswords) && commonPasswords[idx] == lpwd
	}},
}

// checkPassword returns the tag of the first policy rule pwd breaks, or "".
func checkPassword(pwd string, attrs ...string) string {
	for _, rule := range passwordPolicy {
		if rule.broken(pwd, attrs) {
			return rule.tag
		}
	}
	return ""
}
