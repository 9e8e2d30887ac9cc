package types

// DefaultStages is the ordered pipeline used when no stage list has been
// configured. Order is display order only; an account may move to any stage
// at any time.
var DefaultStages = []string{
	"Lead",
	"Demo booked",
	"Demo done",
	"Yes / Closed-Won",
	"Onboarding sent",
	"Build in progress",
	"Testing",
	"Live",
	"Monthly support",
	"Closed-Lost",
}

// DefaultTaskTemplate seeds the general task checklist on account creation.
var DefaultTaskTemplate = []string{
	"Send onboarding email",
	"Confirm Calendly link",
	"Confirm intake form fields",
	"Review clinic branding",
}

// DefaultOnboardingTemplate seeds the onboarding checklist on account creation.
var DefaultOnboardingTemplate = []string{
	"Confirm intake questions + branding",
	"Configure intake form",
	"Setup automation flows",
	"QA intake form",
	"QA automation flows",
	"Train clinic staff",
	"Go live",
	"Post-launch check-in",
}

// StageKnown reports whether stage is a member of the configured stage list.
func StageKnown(stages []string, stage string) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}
