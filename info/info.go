package info

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Info struct {
	Hostname string `json:"hostname"`
	Uptime   int64  `json:"uptime"`
	Data     struct {
		CPU struct {
			Vendor string `json:"vendor"`
			Model  string `json:"model"`
		} `json:"cpu"`
		Board struct {
			Label   string `json:"label"`
			Vendor  string `json:"vendor"`
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"board"`
		Kernel struct {
			Architecture string `json:"architecture"`
			OSType       string `json:"osType"`
			OSRelease    string `json:"osRelease"`
			OSVersion    string `json:"osVersion"`
		} `json:"kernel"`
	} `json:"data"`
}

func Get() (i *Info) {
	i = new(Info)

	i.Hostname, _ = os.Hostname()
	i.fillUptime()
	i.fillCPUInfo()
	i.fillBoardInfo()
	i.fillKernelInfo()

	return
}

func (i *Info) fillUptime() {
	timeG, _ := os.ReadFile("/proc/uptime")
	timeF, _ := strconv.ParseFloat(strings.Split(string(timeG), " ")[0], 64)
	i.Uptime = time.Now().Unix() - int64(timeF)
}
