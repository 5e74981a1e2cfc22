package manager

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v48/github"
	"github.com/lureiny/xrayluci/common"
)

const defaultProcRoot = "/proc"
const commandTimeout = 5 * time.Second

// RunningStatusReply is the response of runningStatus, code 0 means running.
type RunningStatusReply struct {
	Code int `json:"code"`
}

// VersionReply is the response of version.
type VersionReply struct {
	Code    int    `json:"code"`
	Version string `json:"version,omitempty"`
	Latest  string `json:"latest,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

type commandRunner func(ctx context.Context, bin string, args ...string) ([]byte, error)

// ProxyServer inspects the xray process running on the router, it never starts or stops it.
type ProxyServer struct {
	bin                string
	procRoot           string
	softwareGithubInfo *SoftwareGithubInfo
	githubClient       *github.Client
	run                commandRunner
}

func NewProxyServer(bin string, info *SoftwareGithubInfo) *ProxyServer {
	if bin == "" {
		bin = common.DefaultXrayBin
	}
	if info == nil {
		info = GetSoftwareGithubInfo("xray")
	}
	return &ProxyServer{
		bin:                bin,
		procRoot:           defaultProcRoot,
		softwareGithubInfo: info,
		githubClient:       github.NewClient(&http.Client{Timeout: 15 * time.Second}),
		run:                runCommand,
	}
}

func runCommand(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// SetGithubClient replaces the client used by LatestVersion.
func (s *ProxyServer) SetGithubClient(c *github.Client) {
	s.githubClient = c
}

// SetProcRoot changes where IsRunning looks for processes, e.g. a host /proc mounted into a container.
func (s *ProxyServer) SetProcRoot(root string) {
	if root != "" {
		s.procRoot = root
	}
}

// IsRunning 遍历/proc/*/comm查找进程名
func (s *ProxyServer) IsRunning() bool {
	name := filepath.Base(s.bin)
	// comm最长15个字符
	if len(name) > 15 {
		name = name[:15]
	}
	entries, err := os.ReadDir(s.procRoot)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() || !isPid(entry.Name()) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(s.procRoot, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == name {
			return true
		}
	}
	return false
}

func isPid(name string) bool {
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return name != ""
}

// Version runs "<bin> version" and extracts the semantic version.
func (s *ProxyServer) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	out, err := s.run(ctx, s.bin, "version")
	if err != nil {
		return "", fmt.Errorf("run %s version fail > %w", s.bin, err)
	}
	versionRegex := regexp.MustCompile(s.softwareGithubInfo.VersionRegex)
	result := versionRegex.FindSubmatch(out)
	if len(result) < 2 {
		return "", fmt.Errorf("can not get current version > %s", out)
	}
	return string(result[1]), nil
}

// LatestVersion returns the tag of the latest github release without the "v" prefix.
// 参考: https://docs.github.com/cn/rest/releases/releases
func (s *ProxyServer) LatestVersion(ctx context.Context) (string, error) {
	release, _, err := s.githubClient.Repositories.GetLatestRelease(ctx, s.softwareGithubInfo.Owner, s.softwareGithubInfo.Repo)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.GetTagName(), "v"), nil
}

func (s *ProxyServer) RunningStatus(ctx context.Context) RunningStatusReply {
	if s.IsRunning() {
		return RunningStatusReply{Code: common.CodeSuccess}
	}
	return RunningStatusReply{Code: common.CodeFailed}
}

// VersionInfo 获取latest失败不影响本地版本
func (s *ProxyServer) VersionInfo(ctx context.Context, checkLatest bool) VersionReply {
	version, err := s.Version(ctx)
	if err != nil {
		return VersionReply{Code: common.CodeFailed, Msg: err.Error()}
	}
	reply := VersionReply{Code: common.CodeSuccess, Version: version}
	if checkLatest {
		if latest, err := s.LatestVersion(ctx); err == nil {
			reply.Latest = latest
		}
	}
	return reply
}
