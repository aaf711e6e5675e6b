package workers

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battletechbands/backend/config"
	"github.com/battletechbands/backend/intelligence"
	"github.com/battletechbands/backend/media"
	"github.com/battletechbands/backend/realtime"
	"github.com/battletechbands/backend/repository"
)

// TaskType constants
const (
	TaskMetadata     = "metadata"
	TaskThumbnail    = "thumbnail"
	TaskIntelligence = "intelligence"
)

type PhotoJob struct {
	PhotoID      uint
	OriginalPath string // relative to the media store root
	TaskType     string
}

// PhotoProcessor runs a pool of workers that extract metadata, generate
// display variants, and compute intelligence outputs for uploaded photos.
type PhotoProcessor struct {
	JobQueue  chan PhotoJob
	Config    config.Config
	Photos    repository.PhotoRepositoryInterface
	Store     media.Store
	Processor *media.Processor
	Hub       *realtime.Hub
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[string]bool
	Mutex     sync.Mutex
}

func NewPhotoProcessor(cfg config.Config, photos repository.PhotoRepositoryInterface, store media.Store, processor *media.Processor, hub *realtime.Hub, queueSize, numWorkers int) *PhotoProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &PhotoProcessor{
		JobQueue:  make(chan PhotoJob, queueSize),
		Config:    cfg,
		Photos:    photos,
		Store:     store,
		Processor: processor,
		Hub:       hub,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	logrus.Infof("started %d photo processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

// worker loads its face detector once and processes jobs from the queue
func (pp *PhotoProcessor) worker(id int) {
	defer pp.Wg.Done()

	faceDetector := intelligence.NewFaceDetector(pp.Config.FaceNetConfigPath, pp.Config.FaceNetModelPath)
	defer faceDetector.Close()
	if !faceDetector.Enabled {
		logrus.Warnf("worker %d: face detector unavailable, smart crops will use focal point or center", id)
	}

	logrus.Debugf("photo worker %d started", id)
	for {
		select {
		case job, ok := <-pp.JobQueue:
			if !ok {
				logrus.Infof("photo worker %d stopping: job queue closed", id)
				return
			}

			pendingKey := fmt.Sprintf("%d:%s", job.PhotoID, job.TaskType)
			logrus.Debugf("worker %d: received %s task for photo %d", id, job.TaskType, job.PhotoID)

			statusColumn := job.TaskType + "_status"
			if err := pp.Photos.MarkTaskProcessing(job.PhotoID, statusColumn); err != nil {
				logrus.Errorf("worker %d: failed to mark %s processing for photo %d: %v, skipping job", id, job.TaskType, job.PhotoID, err)
				pp.Mutex.Lock()
				delete(pp.Pending, pendingKey)
				pp.Mutex.Unlock()
				continue
			}

			switch job.TaskType {
			case TaskMetadata:
				pp.processMetadataTask(job)
			case TaskThumbnail:
				pp.processThumbnailTask(job)
			case TaskIntelligence:
				pp.processIntelligenceTask(job, faceDetector)
			default:
				logrus.Errorf("worker %d: unknown task type %q for photo %d", id, job.TaskType, job.PhotoID)
			}

			pp.Mutex.Lock()
			delete(pp.Pending, pendingKey)
			pp.Mutex.Unlock()

			pp.notifyTaskDone(job)

		case <-pp.StopChan:
			logrus.Infof("photo worker %d stopping: stop signal received", id)
			return
		}
	}
}

// notifyTaskDone tells websocket clients that a processing task finished so
// galleries can refresh thumbnails and crops without polling
func (pp *PhotoProcessor) notifyTaskDone(job PhotoJob) {
	if pp.Hub == nil {
		return
	}
	pp.Hub.Broadcast(realtime.Event{
		Type: realtime.EventPhotoProcessed,
		Extra: map[string]interface{}{
			"photo_id": job.PhotoID,
			"task":     job.TaskType,
		},
		Timestamp: time.Now().Unix(),
	})
}

// openOriginal resolves and opens the photo's original file
func (pp *PhotoProcessor) openOriginal(job PhotoJob) (*os.File, error) {
	fullPath, err := pp.Store.GetFullPath(job.OriginalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve original path: %w", err)
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("original file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open original file: %w", err)
	}
	return file, nil
}

func (pp *PhotoProcessor) processMetadataTask(job PhotoJob) {
	var taskErr error
	var metadata *media.Metadata

	file, taskErr := pp.openOriginal(job)
	if taskErr == nil {
		metadata, taskErr = media.ExtractMetadata(file)
		file.Close()
		if taskErr != nil {
			logrus.Errorf("worker: metadata extraction failed for photo %d: %v", job.PhotoID, taskErr)
		}
	} else {
		logrus.Errorf("worker: skipping metadata task for photo %d: %v", job.PhotoID, taskErr)
	}

	if dbErr := pp.Photos.UpdateMetadataResult(job.PhotoID, metadata, taskErr); dbErr != nil {
		logrus.Errorf("worker: failed to store metadata result for photo %d: %v", job.PhotoID, dbErr)
	}
}

func (pp *PhotoProcessor) processThumbnailTask(job PhotoJob) {
	var taskErr error
	var thumbPathPtr, webPathPtr *string

	file, taskErr := pp.openOriginal(job)
	if taskErr == nil {
		img, decodeErr := media.DecodeImage(file)
		file.Close()
		if decodeErr != nil {
			taskErr = fmt.Errorf("failed to decode original: %w", decodeErr)
		} else {
			thumbPath, genErr := pp.Processor.GenerateThumbnail(img, pp.Config.ThumbnailMaxSize)
			if genErr != nil {
				taskErr = fmt.Errorf("thumbnail generation failed: %w", genErr)
			} else {
				thumbPathPtr = &thumbPath
			}

			if taskErr == nil {
				webPath, genErr := pp.Processor.GenerateWebSize(img, pp.Config.WebMaxSize)
				if genErr != nil {
					taskErr = fmt.Errorf("web variant generation failed: %w", genErr)
				} else {
					webPathPtr = &webPath
				}
			}
		}
	}
	if taskErr != nil {
		logrus.Errorf("worker: thumbnail task failed for photo %d: %v", job.PhotoID, taskErr)
	}

	if dbErr := pp.Photos.UpdateThumbnailResult(job.PhotoID, thumbPathPtr, webPathPtr, taskErr); dbErr != nil {
		logrus.Errorf("worker: failed to store thumbnail result for photo %d: %v", job.PhotoID, dbErr)
	}
}

// encodeCropBoxes serializes computed crops keyed by their aspect ratio so
// clients can pick the box for the frame they are rendering
func encodeCropBoxes(crops []intelligence.CropResult) (*string, error) {
	cropsByAspect := make(map[string]intelligence.CropResult, len(crops))
	for _, crop := range crops {
		cropsByAspect[crop.Aspect] = crop
	}
	encoded, err := json.Marshal(cropsByAspect)
	if err != nil {
		return nil, fmt.Errorf("failed to encode crop boxes: %w", err)
	}
	s := string(encoded)
	return &s, nil
}

func (pp *PhotoProcessor) processIntelligenceTask(job PhotoJob, faceDetector *intelligence.FaceDetector) {
	var taskErr error
	var phashPtr, dhashPtr, cropBoxesPtr *string
	var monoPtr *bool

	file, taskErr := pp.openOriginal(job)
	if taskErr == nil {
		img, decodeErr := media.DecodeImage(file)
		file.Close()
		if decodeErr != nil {
			taskErr = fmt.Errorf("failed to decode original: %w", decodeErr)
		} else {
			phash := intelligence.PHash(img)
			dhash := intelligence.DHash(img)
			mono := intelligence.IsMonochrome(img)
			phashPtr, dhashPtr, monoPtr = &phash, &dhash, &mono

			var faces []intelligence.Face
			if faceDetector != nil && faceDetector.Enabled {
				fullPath, pathErr := pp.Store.GetFullPath(job.OriginalPath)
				if pathErr == nil {
					var detErr error
					faces, detErr = faceDetector.DetectFaces(fullPath)
					if detErr != nil {
						logrus.Warnf("worker: face detection failed for photo %d, falling back: %v", job.PhotoID, detErr)
					}
				}
			}

			photo, getErr := pp.Photos.GetByID(job.PhotoID)
			var focalX, focalY *float64
			if getErr == nil {
				focalX, focalY = photo.FocalPointX, photo.FocalPointY
			}

			bounds := img.Bounds()
			crops := intelligence.CalculateAllCrops(bounds.Dx(), bounds.Dy(), faces, focalX, focalY)
			cropBoxesPtr, taskErr = encodeCropBoxes(crops)
		}
	}
	if taskErr != nil {
		logrus.Errorf("worker: intelligence task failed for photo %d: %v", job.PhotoID, taskErr)
	}

	if dbErr := pp.Photos.UpdateIntelligenceResult(job.PhotoID, phashPtr, dhashPtr, monoPtr, cropBoxesPtr, taskErr); dbErr != nil {
		logrus.Errorf("worker: failed to store intelligence result for photo %d: %v", job.PhotoID, dbErr)
	}
}

// QueueJob queues a specific task if not already pending
func (pp *PhotoProcessor) QueueJob(job PhotoJob) bool {
	pendingKey := fmt.Sprintf("%d:%s", job.PhotoID, job.TaskType)

	pp.Mutex.Lock()
	if pp.Pending[pendingKey] {
		pp.Mutex.Unlock()
		return false
	}
	pp.Pending[pendingKey] = true
	pp.Mutex.Unlock()

	select {
	case pp.JobQueue <- job:
		logrus.Debugf("queued %s task for photo %d", job.TaskType, job.PhotoID)
		return true
	default:
		logrus.Warnf("photo processing job queue full, failed to queue %s task for photo %d", job.TaskType, job.PhotoID)
		pp.Mutex.Lock()
		delete(pp.Pending, pendingKey)
		pp.Mutex.Unlock()
		return false
	}
}

// QueueAllTasks queues the full processing pipeline for a freshly uploaded photo
func (pp *PhotoProcessor) QueueAllTasks(photoID uint, originalPath string) {
	for _, taskType := range []string{TaskMetadata, TaskThumbnail, TaskIntelligence} {
		pp.QueueJob(PhotoJob{PhotoID: photoID, OriginalPath: originalPath, TaskType: taskType})
	}
}

func (pp *PhotoProcessor) Stop() {
	logrus.Info("stopping photo processor workers...")
	close(pp.StopChan)
	pp.Wg.Wait()
	logrus.Info("all photo processor workers stopped")
}
