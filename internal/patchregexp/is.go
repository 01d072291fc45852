package patchregexp

func IsTranslation(name string) bool {
	return Translation.MatchString(name)
}

func IsAPK(name string) bool {
	return APK.MatchString(name)
}
