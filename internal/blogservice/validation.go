package blogservice

import (
	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
}

func validateTags(v *common.Validator, tags []string) {
	for _, tag := range tags {
		if tag == "" {
			v.AddError("tags", "must not contain empty tags")
			return
		}
	}
}

func validateState(v *common.Validator, state BlogState) {
	v.Check(common.In(string(state), string(StateDraft), string(StatePublished)), "state", "must be either draft or published")
}
