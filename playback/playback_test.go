package playback

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/spf13/afero"
)

// fakeDevice drains the streamer synchronously in Play
type fakeDevice struct {
	playErr  error
	waitErr  error
	stuck    bool // keep reporting playing after Wait
	playing  bool
	plays    int
	stops    int
	samples  int
	lastRate beep.SampleRate
	onStop   func()
}

func (d *fakeDevice) Play(s beep.Streamer, format beep.Format) error {
	if d.playErr != nil {
		return d.playErr
	}
	d.plays++
	d.playing = true
	d.lastRate = format.SampleRate

	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		d.samples += n
		if !ok {
			break
		}
	}
	return nil
}

func (d *fakeDevice) Wait() error {
	if !d.stuck {
		d.playing = false
	}
	return d.waitErr
}

func (d *fakeDevice) Playing() bool { return d.playing }

func (d *fakeDevice) Stop() {
	if d.onStop != nil {
		d.onStop()
	}
	d.stops++
	d.playing = false
}

// trackingFs counts opens and closes of files
type trackingFs struct {
	afero.Fs
	opens  int
	closes int
}

func (fs *trackingFs) Open(name string) (afero.File, error) {
	f, err := fs.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	fs.opens++
	return &trackingFile{File: f, fs: fs}, nil
}

type trackingFile struct {
	afero.File
	fs *trackingFs
}

func (f *trackingFile) Close() error {
	f.fs.closes++
	return f.File.Close()
}

func writeWAV(t *testing.T, fs afero.Fs, path string, samples int) {
	t.Helper()
	f, err := fs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatal(err)
	}
}

func newTestEngine(fs afero.Fs, dev Device) (*Engine, *[]time.Duration) {
	var slept []time.Duration
	e := NewEngine(fs, dev, 100*time.Millisecond)
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	return e, &slept
}

func TestPlayCompleted(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	writeWAV(t, fs, "/audio/0001.wav", 800)

	dev := &fakeDevice{}
	e, slept := newTestEngine(fs, dev)

	out := e.Play("/audio/0001.wav")
	if out.Result != Completed {
		t.Fatalf("Play() = %v (%v), want completed", out.Result, out.Err)
	}
	if dev.plays != 1 {
		t.Errorf("device plays = %d, want 1", dev.plays)
	}
	if dev.samples != 800 {
		t.Errorf("streamed %d samples, want 800", dev.samples)
	}
	if dev.lastRate != 8000 {
		t.Errorf("format rate = %d, want 8000", dev.lastRate)
	}
	if dev.Playing() {
		t.Error("device still playing after Play()")
	}
	if fs.opens != 1 || fs.closes != 1 {
		t.Errorf("opens = %d, closes = %d, want 1 and 1", fs.opens, fs.closes)
	}
	if len(*slept) != 1 || (*slept)[0] != 100*time.Millisecond {
		t.Errorf("settle sleeps = %v, want [100ms]", *slept)
	}
}

func TestPlayNotFound(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	dev := &fakeDevice{}
	e, slept := newTestEngine(fs, dev)

	out := e.Play("/audio/0007.wav")
	if out.Result != NotFound {
		t.Fatalf("Play() = %v, want not-found", out.Result)
	}
	if !errors.Is(out.Err, os.ErrNotExist) {
		t.Errorf("Play() error = %v, want os.ErrNotExist", out.Err)
	}
	if dev.Playing() || dev.plays != 0 {
		t.Errorf("device touched: playing=%v plays=%d", dev.Playing(), dev.plays)
	}
	if len(*slept) != 1 {
		t.Errorf("settle sleeps = %d, want 1", len(*slept))
	}
}

func TestPlayFailuresReleaseDevice(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		dev        *fakeDevice
		wantResult Result
		wantStops  int
	}{
		{
			name:       "not a wav file",
			content:    []byte("definitely not RIFF data"),
			dev:        &fakeDevice{},
			wantResult: DeviceError,
		},
		{
			name:       "device refuses to start",
			dev:        &fakeDevice{playErr: errors.New("i2s bus fault")},
			wantResult: DeviceError,
		},
		{
			name:       "fault while streaming",
			dev:        &fakeDevice{waitErr: errors.New("underrun"), stuck: true},
			wantResult: DeviceError,
			wantStops:  1,
		},
		{
			name:       "device left playing",
			dev:        &fakeDevice{stuck: true},
			wantResult: Completed,
			wantStops:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &trackingFs{Fs: afero.NewMemMapFs()}
			if tt.content != nil {
				if err := afero.WriteFile(fs, "/audio/0001.wav", tt.content, 0o644); err != nil {
					t.Fatal(err)
				}
			} else {
				writeWAV(t, fs, "/audio/0001.wav", 400)
			}

			e, _ := newTestEngine(fs, tt.dev)
			out := e.Play("/audio/0001.wav")

			if out.Result != tt.wantResult {
				t.Fatalf("Play() = %v (%v), want %v", out.Result, out.Err, tt.wantResult)
			}
			if tt.dev.Playing() {
				t.Error("device still playing after Play()")
			}
			if tt.dev.stops != tt.wantStops {
				t.Errorf("stops = %d, want %d", tt.dev.stops, tt.wantStops)
			}
			if fs.opens != 1 || fs.closes != 1 {
				t.Errorf("opens = %d, closes = %d, want 1 and 1", fs.opens, fs.closes)
			}
		})
	}
}

func TestPlayStopsDeviceBeforeClosingFile(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	writeWAV(t, fs, "/audio/0001.wav", 400)

	closesAtStop := -1
	dev := &fakeDevice{stuck: true}
	dev.onStop = func() { closesAtStop = fs.closes }

	e, _ := newTestEngine(fs, dev)
	if out := e.Play("/audio/0001.wav"); out.Result != Completed {
		t.Fatalf("Play() = %v (%v), want completed", out.Result, out.Err)
	}
	if dev.stops != 1 {
		t.Fatalf("stops = %d, want 1", dev.stops)
	}
	if closesAtStop != 0 {
		t.Errorf("file closed %d time(s) before the device was stopped", closesAtStop)
	}
	if fs.closes != 1 {
		t.Errorf("closes = %d, want 1", fs.closes)
	}
}

func TestFileSourceBadHeaderLeavesFileOpen(t *testing.T) {
	fs := &trackingFs{Fs: afero.NewMemMapFs()}
	if err := afero.WriteFile(fs, "/audio/0003.wav", []byte("RIFF but not really"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := fs.Open("/audio/0003.wav")
	if err != nil {
		t.Fatal(err)
	}

	src := &FileSource{File: f}
	if _, _, err := src.GetStreamer(); err == nil {
		t.Fatal("GetStreamer() succeeded on a bad header")
	}
	if fs.closes != 0 {
		t.Errorf("decoder closed the file %d time(s), want 0", fs.closes)
	}
	if err := src.Err(); err != nil {
		t.Errorf("Err() = %v, want nil before streaming", err)
	}
	f.Close()
}

func TestResultString(t *testing.T) {
	for r, want := range map[Result]string{
		Completed:   "completed",
		NotFound:    "not-found",
		DeviceError: "device-error",
		Result(42):  "unknown",
	} {
		if got := r.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", int(r), got, want)
		}
	}
}
