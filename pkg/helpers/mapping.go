package helpers

import (
	"fmt"
	"strings"

	"github.com/soulpet-ai/soulpet-api/pkg/mailer"
	mailtpl "github.com/soulpet-ai/soulpet-api/pkg/mailer/templates"
)

// SubjectForCare builds a reminder subject from rendered template data.
// The mood puts a bit of personality in the inbox line.
func SubjectForCare(data map[string]any) string {
	pet := strings.TrimSpace(fmt.Sprintf("%v", data["PetName"]))
	if pet == "" || pet == "<nil>" {
		pet = "Your companion"
	}
	mood := strings.ToLower(fmt.Sprintf("%v", data["Mood"]))
	switch mood {
	case "hungry":
		return pet + " is hungry!"
	case "sad":
		return pet + " is feeling down"
	case "lonely":
		return pet + " misses you"
	default:
		return pet + " needs some attention"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// EnsureCareTemplate defaults the job onto the care reminder template.
func EnsureCareTemplate(job *mailer.EmailJob) {
	if strings.TrimSpace(job.Template) == "" {
		job.Template = mailtpl.CareReminder
	}
}
