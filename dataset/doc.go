// Package dataset turns a directory of audio files into padded training
// batches of waveforms and mel spectrograms.
//
// Scan finds the files, Dataset produces one (wave, mel) Sample per logical
// index, Collate pads a set of samples into a Batch, and Loader iterates an
// epoch of shuffled batches with an optional pool of prefetch workers.
//
// Typical use:
//
//	ds, err := dataset.New(root, dataset.Options{SampleRate: 22050, BatchSize: 2, Mel: mel.NewMel()})
//	if err != nil {
//	    return err
//	}
//	it := dataset.NewLoader(ds, dataset.LoaderOptions{BatchSize: 2}).Epoch(ctx)
//	defer it.Close()
//	for {
//	    batch, err := it.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package dataset
