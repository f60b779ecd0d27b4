package tui

import "github.com/sihhealth/healthbot/internal/domain"

var uiText = map[domain.Language]map[string]string{
	domain.LangEnglish: {
		"title":           "Health Assistant",
		"subtitle":        "Ask about symptoms, prevention and treatment",
		"menu_chat":       "Chat",
		"menu_chat_desc":  "Talk to the health assistant",
		"menu_profile":    "Profile",
		"menu_profile_d":  "Your account details",
		"menu_login":      "Login",
		"menu_login_d":    "Sign in with username and password",
		"menu_register":   "Register",
		"menu_register_d": "Create a new account",
		"menu_logout":     "Logout",
		"menu_logout_d":   "Clear the saved session",
		"menu_lang":       "भाषा: हिन्दी",
		"menu_lang_d":     "Switch to Hindi",
		"menu_quit":       "Quit",
		"menu_quit_d":     "Exit healthbot",
		"welcome":         "🤖 Welcome! Ask me anything about health.",
		"you":             "You",
		"bot":             "Bot",
		"thinking":        "…",
		"placeholder":     "Type your message",
		"username":        "Username",
		"email":           "Email",
		"phone":           "Phone",
		"password":        "Password",
		"confirm":         "Confirm password",
		"signed_in":       "Signed in",
		"signed_out":      "Signed out",
		"registered":      "Account created",
		"anonymous":       "Not signed in",
		"loading":         "Loading…",
		"err_auth":        "Session expired, please log in again",
		"err_unreachable": "⚠️ Server not responding",
		"err_portal":      "Portal error",
		"err_crash":       "Something went wrong; back to the menu (see logs)",
		"help_home":       "↑/↓ navigate • enter open • q quit",
		"help_chat":       "enter send • esc back",
		"help_form":       "tab next field • enter submit • esc back",
		"help_back":       "esc/b back • r reload",
	},
	domain.LangHindi: {
		"title":           "स्वास्थ्य सहायक",
		"subtitle":        "लक्षण, रोकथाम और उपचार के बारे में पूछें",
		"menu_chat":       "चैट",
		"menu_chat_desc":  "स्वास्थ्य सहायक से बात करें",
		"menu_profile":    "प्रोफ़ाइल",
		"menu_profile_d":  "आपके खाते का विवरण",
		"menu_login":      "लॉगिन",
		"menu_login_d":    "उपयोगकर्ता नाम और पासवर्ड से साइन इन करें",
		"menu_register":   "रजिस्टर",
		"menu_register_d": "नया खाता बनाएं",
		"menu_logout":     "लॉगआउट",
		"menu_logout_d":   "सहेजा गया सत्र हटाएं",
		"menu_lang":       "Language: English",
		"menu_lang_d":     "अंग्रेज़ी पर जाएं",
		"menu_quit":       "बाहर निकलें",
		"menu_quit_d":     "healthbot बंद करें",
		"welcome":         "🤖 स्वागत है! स्वास्थ्य के बारे में कुछ भी पूछें।",
		"you":             "आप",
		"bot":             "बॉट",
		"thinking":        "…",
		"placeholder":     "अपना संदेश लिखें",
		"username":        "उपयोगकर्ता नाम",
		"email":           "ईमेल",
		"phone":           "फोन",
		"password":        "पासवर्ड",
		"confirm":         "पासवर्ड की पुष्टि करें",
		"signed_in":       "साइन इन हो गया",
		"signed_out":      "साइन आउट हो गया",
		"registered":      "खाता बन गया",
		"anonymous":       "साइन इन नहीं है",
		"loading":         "लोड हो रहा है…",
		"err_auth":        "सत्र समाप्त हो गया, कृपया फिर से लॉगिन करें",
		"err_unreachable": "⚠️ सर्वर जवाब नहीं दे रहा",
		"err_portal":      "पोर्टल त्रुटि",
		"err_crash":       "कुछ गलत हो गया; मेनू पर वापस (लॉग देखें)",
		"help_home":       "↑/↓ चुनें • enter खोलें • q बाहर",
		"help_chat":       "enter भेजें • esc वापस",
		"help_form":       "tab अगला • enter जमा करें • esc वापस",
		"help_back":       "esc/b वापस • r फिर से लोड",
	},
}

func text(lang domain.Language, key string) string {
	if m, ok := uiText[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return uiText[domain.LangEnglish][key]
}
