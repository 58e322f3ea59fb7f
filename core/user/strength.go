package user

import (
	"bufio"
	"bytes"
	"compress/gzip"
	_ "embed"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/darasa/core"
)

//go:embed assets/common-passwords.txt.gz
var commonPasswordsGz []byte

var (
	commonPasswords []string
	commonPwdsInit  sync.Once

	pwdStrongLen = 12
	pwdMaxSim    = .7

	strengthLabels = [...]string{"Very Weak", "Weak", "Fair", "Strong", "Very Strong"}

	warnTooShort = pwdMinLenText
	warnAllNum   = "password cannot be entirely numeric"
	warnTooSim   = "password is too similar to your personal information"
	warnCommon   = "this is a very common password"
)

// Strength is an advisory password strength evaluation.
type Strength struct {
	Score   int    `json:"score"` // 0 - 4
	Label   string `json:"label"`
	Warning string `json:"warning,omitempty"`
}

// LoadCommonPasswords loads the embedded common passwords list (only once).
func LoadCommonPasswords(logger core.Logger) {
	commonPwdsInit.Do(func() {
		gzRdr, err := gzip.NewReader(bytes.NewReader(commonPasswordsGz))
		if err != nil {
			if logger != nil {
				logger.Error("loading common passwords", err)
			}
			return
		}
		//goland:noinspection GoUnhandledErrorResult
		defer gzRdr.Close()

		scanner := bufio.NewScanner(gzRdr)
		for scanner.Scan() {
			if pwd := strings.TrimSpace(scanner.Text()); pwd != "" {
				commonPasswords = append(commonPasswords, pwd)
			}
		}
		sort.Strings(commonPasswords)
	})
}

func isCommonPassword(pwd string) bool {
	LoadCommonPasswords(nil)
	lpwd := strings.ToLower(pwd)
	idx := sort.SearchStrings(commonPasswords, lpwd)
	return idx < len(commonPasswords) && commonPasswords[idx] == lpwd
}

func similarity(pwd, usrAttr string) float64 {
	if usrAttr == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(strings.ToLower(pwd), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
}

// PasswordStrength scores pwd from 0 (Very Weak) to 4 (Very Strong).
// userAttrs (name, email..) lower the score when pwd is too similar to any of them.
func PasswordStrength(pwd string, userAttrs ...string) Strength {
	score := func(s int, warning string) Strength {
		return Strength{Score: s, Label: strengthLabels[s], Warning: warning}
	}
	if pwd == "" {
		return score(0, "")
	}
	if isCommonPassword(pwd) {
		return score(0, warnCommon)
	}

	var digitCount int
	var hasUpper, hasLower, hasSpecial bool
	for _, char := range pwd {
		switch {
		case unicode.IsDigit(char):
			digitCount++
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		default:
			hasSpecial = true
		}
	}
	var classes int
	for _, has := range []bool{hasUpper, hasLower, digitCount > 0, hasSpecial} {
		if has {
			classes++
		}
	}

	pwdLen := utf8.RuneCountInString(pwd)
	var s int
	if pwdLen >= pwdMinLen {
		s++
	}
	if pwdLen >= pwdStrongLen {
		s++
	}
	if classes >= 3 {
		s++
	}
	if classes == 4 && pwdLen >= 10 {
		s++
	}

	switch {
	case pwdLen < pwdMinLen:
		return score(s, warnTooShort)
	case digitCount == pwdLen:
		return score(min(s, 1), warnAllNum)
	}
	for _, attr := range userAttrs {
		if similarity(pwd, attr) >= pwdMaxSim {
			return score(min(s, 1), warnTooSim)
		}
	}
	return score(s, "")
}
