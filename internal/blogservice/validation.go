package blogservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

func validateLikes(v *common.Validator, likes int) {
	v.Check(likes >= 0, "likes", "likes must not be negative")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "the content cannot be empty")
}
