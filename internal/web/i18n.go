package web

// The portal serves English and Kannada. Strings are resolved per request
// from the lang cookie and handed to templates as plain data, so no handler
// or template depends on ambient language state.

const (
	langEnglish = "en"
	langKannada = "kn"
)

type dictionary map[string]string

var translations = map[string]dictionary{
	langEnglish: {
		"app.title":            "Digital Seva",
		"nav.home":             "Home",
		"nav.track":            "Track Application",
		"nav.login":            "Login",
		"nav.register":         "Register",
		"nav.logout":           "Logout",
		"nav.dashboard":        "Dashboard",
		"nav.profile":          "Profile",
		"auth.login":           "Sign In",
		"auth.register":        "Create Account",
		"auth.name":            "Full Name",
		"auth.email":           "Email",
		"auth.phone":           "Phone",
		"auth.password":        "Password",
		"dash.title":           "My Applications",
		"dash.apply":           "Apply for Service",
		"dash.empty":           "You have not applied for any service yet.",
		"dash.stat.total":      "Total Applications",
		"dash.stat.pending":    "In Progress",
		"dash.stat.completed":  "Completed",
		"apply.title":          "Apply for Service",
		"apply.step1":          "Step 1: Choose a Service",
		"apply.step2":          "Step 2: Upload Documents",
		"apply.continue":       "Continue",
		"apply.submit":         "Submit Application",
		"track.title":          "Track Your Application",
		"track.prompt":         "Enter your tracking ID (e.g. DSC-123456)",
		"track.button":         "Track",
		"detail.remarks":       "Administrator Remarks",
		"detail.noremarks":     "No remarks from administrator yet.",
		"detail.documents":     "Submitted Documents",
		"detail.delete":        "Delete Application",
		"profile.title":        "My Profile",
		"profile.save":         "Save Changes",
		"admin.dashboard":      "Admin Dashboard",
		"admin.services":       "Manage Services",
		"admin.users":          "Users",
		"admin.review":         "Review Application",
		"admin.status":         "Status",
		"admin.remarks":        "Remarks",
		"admin.save":           "Save",
		"services.name":        "Service Name",
		"services.description": "Description",
		"services.documents":   "Required Documents (comma separated)",
		"services.add":         "Add Service",
		"services.delete":      "Delete",
	},
	langKannada: {
		"app.title":            "ಡಿಜಿಟಲ್ ಸೇವಾ",
		"nav.home":             "ಮುಖಪುಟ",
		"nav.track":            "ಅರ್ಜಿ ಹುಡುಕಿ",
		"nav.login":            "ಲಾಗಿನ್",
		"nav.register":         "ನೋಂದಣಿ",
		"nav.logout":           "ಲಾಗ್ ಔಟ್",
		"nav.dashboard":        "ಡ್ಯಾಶ್‌ಬೋರ್ಡ್",
		"nav.profile":          "ಪ್ರೊಫೈಲ್",
		"auth.login":           "ಸೈನ್ ಇನ್",
		"auth.register":        "ಖಾತೆ ರಚಿಸಿ",
		"auth.name":            "ಪೂರ್ಣ ಹೆಸರು",
		"auth.email":           "ಇಮೇಲ್",
		"auth.phone":           "ದೂರವಾಣಿ",
		"auth.password":        "ಪಾಸ್‌ವರ್ಡ್",
		"dash.title":           "ನನ್ನ ಅರ್ಜಿಗಳು",
		"dash.apply":           "ಸೇವೆಗಾಗಿ ಅರ್ಜಿ ಸಲ್ಲಿಸಿ",
		"dash.empty":           "ನೀವು ಇನ್ನೂ ಯಾವುದೇ ಸೇವೆಗೆ ಅರ್ಜಿ ಸಲ್ಲಿಸಿಲ್ಲ.",
		"dash.stat.total":      "ಒಟ್ಟು ಅರ್ಜಿಗಳು",
		"dash.stat.pending":    "ಪ್ರಗತಿಯಲ್ಲಿದೆ",
		"dash.stat.completed":  "ಪೂರ್ಣಗೊಂಡಿದೆ",
		"apply.title":          "ಸೇವೆಗಾಗಿ ಅರ್ಜಿ ಸಲ್ಲಿಸಿ",
		"apply.step1":          "ಹಂತ 1: ಸೇವೆಯನ್ನು ಆರಿಸಿ",
		"apply.step2":          "ಹಂತ 2: ದಾಖಲೆಗಳನ್ನು ಅಪ್‌ಲೋಡ್ ಮಾಡಿ",
		"apply.continue":       "ಮುಂದುವರಿಸಿ",
		"apply.submit":         "ಅರ್ಜಿ ಸಲ್ಲಿಸಿ",
		"track.title":          "ನಿಮ್ಮ ಅರ್ಜಿಯನ್ನು ಹುಡುಕಿ",
		"track.prompt":         "ನಿಮ್ಮ ಟ್ರ್ಯಾಕಿಂಗ್ ಐಡಿ ನಮೂದಿಸಿ (ಉದಾ. DSC-123456)",
		"track.button":         "ಹುಡುಕಿ",
		"detail.remarks":       "ನಿರ್ವಾಹಕರ ಟಿಪ್ಪಣಿಗಳು",
		"detail.noremarks":     "ನಿರ್ವಾಹಕರಿಂದ ಇನ್ನೂ ಟಿಪ್ಪಣಿಗಳಿಲ್ಲ.",
		"detail.documents":     "ಸಲ್ಲಿಸಿದ ದಾಖಲೆಗಳು",
		"detail.delete":        "ಅರ್ಜಿಯನ್ನು ಅಳಿಸಿ",
		"profile.title":        "ನನ್ನ ಪ್ರೊಫೈಲ್",
		"profile.save":         "ಬದಲಾವಣೆ ಉಳಿಸಿ",
		"admin.dashboard":      "ನಿರ್ವಾಹಕ ಡ್ಯಾಶ್‌ಬೋರ್ಡ್",
		"admin.services":       "ಸೇವೆಗಳ ನಿರ್ವಹಣೆ",
		"admin.users":          "ಬಳಕೆದಾರರು",
		"admin.review":         "ಅರ್ಜಿ ಪರಿಶೀಲನೆ",
		"admin.status":         "ಸ್ಥಿತಿ",
		"admin.remarks":        "ಟಿಪ್ಪಣಿಗಳು",
		"admin.save":           "ಉಳಿಸಿ",
		"services.name":        "ಸೇವೆಯ ಹೆಸರು",
		"services.description": "ವಿವರಣೆ",
		"services.documents":   "ಅಗತ್ಯ ದಾಖಲೆಗಳು (ಅಲ್ಪವಿರಾಮದಿಂದ ಬೇರ್ಪಡಿಸಿ)",
		"services.add":         "ಸೇವೆ ಸೇರಿಸಿ",
		"services.delete":      "ಅಳಿಸಿ",
	},
}

// strings returns the dictionary for lang, falling back to English for
// unknown codes and filling gaps from English so templates never render an
// empty label.
func stringsFor(lang string) dictionary {
	base := translations[langEnglish]
	if lang == langEnglish {
		return base
	}
	d, ok := translations[lang]
	if !ok {
		return base
	}
	merged := make(dictionary, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range d {
		merged[k] = v
	}
	return merged
}
