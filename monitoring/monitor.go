// Package monitoring turns a running replay into an HTTP server so that the
// disks can be inspected while the trace is being processed.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/hddsim/disk/cache"
	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/sim"
)

// A Disk is a component whose state the monitor can summarize.
type Disk interface {
	sim.Named
	Capacity() uint64
	Head() hdd.HeadState
	CachePolicy() hdd.CacheHitPolicy
	CacheStats() cache.Stats
	CacheSnapshot() cache.Snapshot
}

// Monitor serves the state of the registered components over HTTP.
type Monitor struct {
	lock       sync.Locker
	portNumber int
	idGen      sim.IDGenerator
	components []sim.Named
	router     *mux.Router
	server     *http.Server

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	m := &Monitor{
		lock:  &sync.Mutex{},
		idGen: sim.NewUniqueIDGenerator(),
	}

	m.router = m.buildRouter()

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLock sets the lock that guards the registered components. The monitor
// holds it while reading component state, so the code that drives the
// components should hold the same lock while mutating them.
func (m *Monitor) WithLock(lock sync.Locker) *Monitor {
	m.lock = lock
	return m
}

// Lock returns the lock that guards the registered components.
func (m *Monitor) Lock() sync.Locker {
	return m.lock
}

// RegisterComponent registers a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Named) {
	for _, registered := range m.components {
		if registered.Name() == c.Name() {
			panic(fmt.Sprintf("component %s already registered", c.Name()))
		}
	}

	m.components = append(m.components, c)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		id:    m.idGen.Generate(),
		name:  name,
		start: time.Now(),
		total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the list of active bars.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the HTTP handler of the monitor.
func (m *Monitor) Handler() http.Handler {
	return m.router
}

func (m *Monitor) buildRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/disk/{name}", m.reportDisk)
	r.HandleFunc("/api/cache/{name}", m.reportCache)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	if m.server != nil {
		return "", errors.New("monitoring server already started")
	}

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	srv := &http.Server{
		Handler:           m.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	m.server = srv

	go func() {
		err := srv.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url, nil
}

// StopServer stops the web server.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	err := m.server.Close()
	m.server = nil

	return err
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type diskRsp struct {
	Name        string        `json:"name"`
	Capacity    uint64        `json:"capacity"`
	Head        hdd.HeadState `json:"head"`
	CachePolicy string        `json:"cache_policy"`
	Cache       cache.Stats   `json:"cache"`
}

func (m *Monitor) reportDisk(w http.ResponseWriter, r *http.Request) {
	d := m.findDiskOr404(w, mux.Vars(r)["name"])
	if d == nil {
		return
	}

	m.lock.Lock()
	rsp := diskRsp{
		Name:        d.Name(),
		Capacity:    d.Capacity(),
		Head:        d.Head(),
		CachePolicy: d.CachePolicy().String(),
		Cache:       d.CacheStats(),
	}
	m.lock.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) reportCache(w http.ResponseWriter, r *http.Request) {
	d := m.findDiskOr404(w, mux.Vars(r)["name"])
	if d == nil {
		return
	}

	m.lock.Lock()
	snapshot := d.CacheSnapshot()
	m.lock.Unlock()

	writeJSON(w, snapshot)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Named {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	http.Error(w, "Component not found", http.StatusNotFound)

	return nil
}

func (m *Monitor) findDiskOr404(w http.ResponseWriter, name string) Disk {
	c := m.findComponentOr404(w, name)
	if c == nil {
		return nil
	}

	d, ok := c.(Disk)
	if !ok {
		http.Error(w, "Component is not a disk", http.StatusNotFound)
		return nil
	}

	return d
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.rsp())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	if err != nil {
		log.Printf("monitoring: %v", err)
	}
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
