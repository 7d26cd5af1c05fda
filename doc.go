/*
Command ast542 fits simple statistical models to photometric light curves
and reports the fitted quantities for each object.

Contents

Version 0.4

  Program overview
  Installing from the Internet
  Command line usage
  File formats
  Algorithm outline


Program overview

Input is one or more files of light curve photometry, each a table of
observation time, flux, and flux uncertainty for a single object.  Output
is one line of fitted quantities per object.

The models are the ones worked through in the course labs: a constant
flux, a constant flux with excess variance ("jitter"), a mixture of
inliers and outliers, and a Gaussian process.  The program fits whichever
of these are enabled and compares them by information criterion.

Sample run:

Here is some made up photometry of a supernova-like object.  You put it
in a file, say sn2017ein.csv,

  time,flux,flux_err
  57898.31,1052.1,12.4
  57899.27,1049.8,12.1
  57901.33,1183.0,12.9
  57902.29,1047.2,12.6
  57903.30,1045.5,12.3
  57905.28,1061.7,12.2

then type "ast542 sn2017ein.csv" and get output like,

  ast542 version 0.4 Go source.
  Name          Pts   Days       Mean       +/-  Chi2  Jit%       Marg       +/- Out  Pout Best
  sn2017ein       6    7.0       1072      5.07 17.84   3.7       1072        15   1  0.17 mixture

Pts counts the points surviving the cleaning pass and Days is the time
they span.  The mean and its standard error come from the inverse
variance weighted constant fit.  Chi2 is the reduced chi-square of that
fit; a value far above 1 means the reported errors do not account for
the scatter.  Jit% is the fitted excess scatter as a percentage of the
mean flux, and the Marg columns repeat the mean after marginalizing
over the unknown excess variance.  Out counts the points with posterior
outlier probability above one half, with Pout the fitted outlier
fraction.  Here the third point is flagged; it inflates the plain
weighted mean and chi-square, while the remaining points are consistent
with a constant.  Best names the model with the lowest AIC.

Points with outlier probability in the borderline range appear
parenthesized at the end of the line as (index probability) pairs, in
the manner of

  eb0031        118  412.2       52.3      0.21 **.**  14.7       52.1      0.95   3  0.05 mixture (17 0.31) (64 0.24)

A Chi2 too large for its column prints as asterisks, as above.


Installing from the Internet

You need a Go toolchain installed and configured.  If you are new to Go,
see https://golang.org/doc/install.  Then type,

  go install github.com/adrn/AST542@latest

This downloads, compiles, and installs the ast542 command.  Three
companion commands install the same way,

  go install github.com/adrn/AST542/cutout@latest
  go install github.com/adrn/AST542/lcgen@latest
  go install github.com/adrn/AST542/mcc@latest

Cutout fetches SDSS finder images for a sky position.  Lcgen generates
synthetic light curves with known answers, useful for testing your
analysis before pointing it at real data.  Mcc scores outlier
identifications against the truth files lcgen writes.


Command line usage

The main executable is ast542.  Invoking the program without command
line arguments (or with invalid arguments) shows this usage prompt.

  Usage: ast542 [options] <lcfile>...   fit light curves in files
         ast542 [options] -             fit a light curve from stdin
         ast542 -h                      display help and quick reference
         ast542 -v                      display version and copyright

  Options:
       -c <config-file>
       -p <plot-directory>
       -r <report-file>

The help information lists a quick reference to keywords allowed in the
configuration file.  The configuration file is explained below under
File formats.

With -p, the program writes a PNG plot of each curve and its fitted
models into the given directory, one file per object.  With -r, it
writes a single HTML report of all objects with points colored by
outlier probability.


File formats

Light curve files are CSV or FITS, dispatched on file name extension.
Files named .fits, .fit, or .fts read as FITS; anything else reads as
CSV.  Stdin always reads as CSV.

A CSV file holds one object: three columns time, flux, flux_err, an
optional single header row, and # comment lines.  Extra columns are
ignored.  Times are in days; the flux scale is arbitrary but must be
consistent within a file.

A FITS file is read from its first binary table HDU with TIME and FLUX
columns (FLUX_ERR optional, names case insensitive).  The object name,
band, and sky position are taken from OBJECT, FILTER, and
RA_OBJ/DEC_OBJ header cards when present.

Points with missing or non-finite values are dropped before fitting,
with a count of dropped points noted on standard error.  Objects with
fewer than two good points are skipped.

The optional configuration file is a text file with a simple format.
Empty lines and lines beginning with # are ignored.  Other lines must
contain a keyword.

Allowable keywords:

   headings
   noheadings
   chi2
   nochi2
   poss
   noposs
   points
   nopoints
   jitter
   nojitter
   outliers
   nooutliers
   gp
   nogp
   repeatable
   random
   walkers=<n>
   steps=<n>
   pout=<max outlier fraction>
   errfloor=<floor>
   errfloor <band>=<floor>

Headings and the chi2 column can be turned off if desired.  Poss
controls the parenthesized borderline column.  Points replaces the
usual columns entirely with one "name index probability" line per
point, the format scored by the program mcc with its -t option.

Jitter, outliers, and gp select which models are fit beyond the
constant.  The jitter and mixture fits are on by default; the Gaussian
process is off because it is the expensive one.

The keywords repeatable and random determine if program output is
strictly repeatable or can vary slightly from one run to the next.  The
mixture fit uses a Monte Carlo method.  By default, the pseudo random
number generator is seeded randomly.  When the keyword repeatable is
used, it is reseeded with a constant value for each object, yielding
repeatable numbers.

Walkers and steps size the Monte Carlo ensemble, and pout caps the
outlier fraction the mixture may assign.  The defaults are 40 walkers,
1000 steps, and a cap of 0.5.

Keyword errfloor specifies a floor on the reported flux errors, useful
when a survey's pipeline is known to underestimate them.  Reported
errors below the floor are raised to it.  As in,

  errfloor=0.02

A floor may be given for individual bands, overriding the default, as
in,

  errfloor g=0.015
  errfloor r = 0.02

As shown, white space is optional.

Example:

  noheadings
  nochi2
  nooutliers
  repeatable

Output:

  sn2017ein       6    7.0       1072      5.07   3.7       1072        15 jitter

This might be useful for generating results to be analyzed by another
program.  See the program mcc, for example, included with ast542.


Algorithm outline

1.  For each object, the program drops unusable points, applies any
configured error floors, and computes the inverse variance weighted mean
flux with its standard error and chi-square.

2.  The jitter model adds a latent variance V to each point's reported
variance.  The likelihood is maximized over the mean and ln V, and the
mean is then marginalized over ln V on a grid to give an uncertainty
that allows for the unknown scatter.

3.  The mixture model describes each point as drawn either from the
constant inlier model or from a broad background of outliers, with the
outlier fraction, background center, and background variance as free
parameters.  The posterior is sampled with an affine invariant ensemble
of walkers.  Per-point outlier probabilities are read off the highest
posterior sample; points above 0.5 are flagged and counted, points
above 0.2 are listed as possibilities.

4.  The Gaussian process model fits flux about the mean with a squared
exponential covariance in time, maximizing the likelihood over the
amplitude and time scale.

5.  Fitted models are compared by the Akaike information criterion and
the best names the winner.  The Bayesian criterion is also computed for
the model table available to the report writer.

-------------
Public domain 2026.
*/
package main
