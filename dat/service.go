package dat

import (
	"context"

	"github.com/lureiny/xrayluci/common"
	"github.com/lureiny/xrayluci/common/log/logger"
)

// ListStatusReply is the response of listStatus.
type ListStatusReply struct {
	Code     int    `json:"code"`
	Count    string `json:"count,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

// UpdateReply is the response of updatedatafile.
type UpdateReply struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
}

// Service is the router side of the data file rpc methods.
type Service struct {
	Dir     string
	Files   FileAccess
	Updater *Updater
}

func NewService(dir string, files FileAccess, updater *Updater) *Service {
	if files == nil {
		files = OSFileAccess{}
	}
	return &Service{Dir: dir, Files: files, Updater: updater}
}

func (s *Service) ListStatus(ctx context.Context, name string) ListStatusReply {
	if !ValidName(name) {
		return ListStatusReply{Code: common.CodeFailed}
	}
	info, err := s.Files.Stat(DataFilePath(s.Dir, name))
	if err != nil {
		return ListStatusReply{Code: common.CodeFailed}
	}
	status := StatusFromFileInfo(info)
	return ListStatusReply{
		Code:     common.CodeSuccess,
		Count:    status.Count,
		Datetime: status.Datetime,
	}
}

func (s *Service) UpdateDataFile(ctx context.Context, name, url string) UpdateReply {
	if s.Updater == nil {
		return UpdateReply{Code: common.CodeFailed, Msg: "updater is not configured"}
	}
	if err := s.Updater.Update(ctx, name, url); err != nil {
		logger.Error("Err=%v|Name=%s|Url=%s", err, name, url)
		return UpdateReply{Code: common.CodeFailed, Msg: err.Error()}
	}
	return UpdateReply{Code: common.CodeSuccess}
}

// FilterListStatus maps a listStatus reply to the displayed record, anything but success is the default record.
func FilterListStatus(reply ListStatusReply) Status {
	if reply.Code != common.CodeSuccess {
		return DefaultStatus()
	}
	return Status{Count: reply.Count, Datetime: reply.Datetime}
}
