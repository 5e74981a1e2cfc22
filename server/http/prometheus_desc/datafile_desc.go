package prometheusdesc

import (
	"github.com/lureiny/xrayluci/dat"
	"github.com/prometheus/client_golang/prometheus"
)

// dataFileDesc reports size and modification time of the data files on every scrape.
type dataFileDesc struct {
	size  *prometheus.Desc
	mtime *prometheus.Desc

	node  string
	dir   string
	files dat.FileAccess
	names []string
}

func NewDataFileDesc(node, dir string, files dat.FileAccess, names []string) *dataFileDesc {
	return &dataFileDesc{
		size: prometheus.NewDesc(
			"xrayluci_datafile_bytes",
			"size of the xray data file",
			[]string{"node", "name"},
			prometheus.Labels{},
		),
		mtime: prometheus.NewDesc(
			"xrayluci_datafile_mtime_seconds",
			"modification time of the xray data file",
			[]string{"node", "name"},
			prometheus.Labels{},
		),
		node:  node,
		dir:   dir,
		files: files,
		names: names,
	}
}

func (d *dataFileDesc) Describe(ch chan<- *prometheus.Desc) {
	ch <- d.size
	ch <- d.mtime
}

// 不存在的文件不上报
func (d *dataFileDesc) Collect(ch chan<- prometheus.Metric) {
	for _, name := range d.names {
		info, err := d.files.Stat(dat.DataFilePath(d.dir, name))
		if err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(d.size, prometheus.GaugeValue, float64(info.Size), d.node, name)
		ch <- prometheus.MustNewConstMetric(d.mtime, prometheus.GaugeValue, float64(info.Mtime.Unix()), d.node, name)
	}
}
