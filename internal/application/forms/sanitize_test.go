package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

func TestSanitizeValues(t *testing.T) {
	in := entities.FormValues{
		"name":        "  Trần Thị B  ",
		"description": "<b>Cần hỗ trợ</b> mở tài khoản & chuyển tiền",
		"notes":       "<script>alert(1)</script>",
		"email":       "",
	}

	out := SanitizeValues(in)

	assert.Equal(t, "Trần Thị B", out["name"])
	assert.Equal(t, "Cần hỗ trợ mở tài khoản & chuyển tiền", out["description"])
	assert.NotContains(t, out["notes"], "<script>")
	assert.Equal(t, "", out["email"])
	assert.Equal(t, "  Trần Thị B  ", in["name"], "input must not be modified")
}
