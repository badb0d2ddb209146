package constants

const (
	// MAX_AD_CLICK_PARAMS caps the auxiliary ad-click map on a beacon;
	// anything larger is a malformed or hostile payload
	MAX_AD_CLICK_PARAMS = 32

	// MAX_EMAIL_LENGTH follows the SMTP path limit
	MAX_EMAIL_LENGTH = 320

	MAX_NAME_LENGTH  = 128
	MAX_PHONE_LENGTH = 32
	MAX_URL_LENGTH   = 2048
)
