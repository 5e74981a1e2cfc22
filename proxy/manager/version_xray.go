package manager

import "github.com/lureiny/xrayluci/common"

type SoftwareGithubInfo struct {
	Repo         string
	Owner        string
	FileName     string
	VersionRegex string
}

var softwareGithubInfoMap = map[string]*SoftwareGithubInfo{
	"xray": {
		Repo:         common.DefaultXrayRepo,
		Owner:        common.DefaultXrayOwner,
		FileName:     "xray",
		VersionRegex: `(?m)^Xray (\d+\.\d+\.\d+)`,
	},
}

func GetSoftwareGithubInfo(softwareName string) *SoftwareGithubInfo {
	return softwareGithubInfoMap[softwareName]
}
