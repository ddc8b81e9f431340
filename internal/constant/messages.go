package constant

// Menu buttons
const (
	BtnSendCV    = "Send CV"
	BtnVacancies = "View vacancies"
	BtnContact   = "Contact HR"
)

// Commands (without the leading slash)
const (
	CmdStart     = "start"
	CmdMenu      = "menu"
	CmdApply     = "apply"
	CmdCancel    = "cancel"
	CmdVacancies = "vacancies"
	CmdContact   = "contact"
	CmdWhereAmI  = "whereami"
)

// Conversation prompts, in flow order
const (
	MsgGreeting    = "Hi! This is the BalticWorks bot for CV submissions.\nUse the menu below to continue."
	MsgChooseMenu  = "Choose an option:"
	MsgAskName     = "What is your full name?"
	MsgAskEmail    = "Your email address?"
	MsgAskPhone    = "Your phone number (with country code)?"
	MsgAskPosition = "Which position are you applying for?"
	MsgAskSource   = "Where did you find this vacancy? (LinkedIn/Telegram/Website/Referral/Other)"
	MsgAskFile     = "Please send your CV file (PDF/DOC/DOCX) or a photo (JPG/PNG)."
	MsgCancelled   = "Okay, cancelled the application."
	MsgThankYou    = "Thank you, your CV has been received.\nOur HR team will contact you if your profile matches our vacancies"
	MsgGenericErr  = "Sorry, something went wrong. Please try again."
)

const DefaultHREmail = "info@balticworks.lv"
