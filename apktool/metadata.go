package apktool

// MetadataName is the name of the file apktool writes
// its build metadata to at the root of a decoded APK.
const MetadataName = "apktool.yml"

type UsesFramework struct {
	IDs []int `yaml:"ids"`
	Tag any   `yaml:"tag"`
}

// SDKInfo values are strings because apktool quotes them.
type SDKInfo struct {
	MinSDKVersion    string `yaml:"minSdkVersion"`
	TargetSDKVersion string `yaml:"targetSdkVersion"`
}

type PackageInfo struct {
	ForcedPackageID       string `yaml:"forcedPackageId"`
	RenameManifestPackage string `yaml:"renameManifestPackage"`
}

type VersionInfo struct {
	VersionCode string `yaml:"versionCode"`
	VersionName string `yaml:"versionName"`
}

type Metadata struct {
	Version                string         `yaml:"version,omitempty"`
	APKFileName            string         `yaml:"apkFileName,omitempty"`
	IsFrameworkAPK         bool           `yaml:"isFrameworkApk,omitempty"`
	UsesFramework          *UsesFramework `yaml:"usesFramework,omitempty"`
	SDKInfo                *SDKInfo       `yaml:"sdkInfo,omitempty"`
	PackageInfo            *PackageInfo   `yaml:"packageInfo,omitempty"`
	VersionInfo            *VersionInfo   `yaml:"versionInfo,omitempty"`
	ResourcesAreCompressed bool           `yaml:"resourcesAreCompressed,omitempty"`
	SharedLibrary          bool           `yaml:"sharedLibrary,omitempty"`
	SparseResources        bool           `yaml:"sparseResources,omitempty"`
	DoNotCompress          []string       `yaml:"doNotCompress,omitempty"`
}
